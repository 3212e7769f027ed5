/*
 * apiserver.go
 */
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
	"github.com/sdg2-jukebox/jukebox/hw"
)

const (
	DefaultCommandWait = 300 * time.Millisecond
	MaxCommandWait     = 5 * time.Second
	DefaultClickMs     = 100
	necReplayPace      = 2 * time.Millisecond
)

func homeLink(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Welcome home!")
}

func sendJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

var pongs int = 0

func APIping(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("APIping: received /ping request from %s.\n", r.RemoteAddr)

		var pp jukebox.PingPost
		if err := json.NewDecoder(r.Body).Decode(&pp); err != nil {
			log.Println("APIping: error decoding ping post:", err)
		}
		pongs += 1
		sendJSON(w, jukebox.PingResponse{
			Time:    time.Now(),
			Client:  r.RemoteAddr,
			Message: "pong",
			Pings:   pp.Pings + 1,
			Pongs:   pongs,
		})
	}
}

func APIstatus(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var sp jukebox.StatusPost
		if err := json.NewDecoder(r.Body).Decode(&sp); err != nil {
			log.Println("APIstatus: error decoding status post:", err)
		}

		resp := jukebox.StatusResponse{
			Time:   time.Now(),
			Client: r.RemoteAddr,
			Device: conf.Internal.Engine.Status(),
		}
		resp.Msg = fmt.Sprintf("jukebox is %s", resp.Device.States["jukebox"])
		sendJSON(w, resp)
	}
}

// APIcommand types a line into the serial link and returns whatever the
// device sends back while we wait.
func APIcommand(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	h := conf.Internal.Hardware
	return func(w http.ResponseWriter, r *http.Request) {
		var cp jukebox.CommandPost
		if err := json.NewDecoder(r.Body).Decode(&cp); err != nil {
			log.Println("APIcommand: error decoding command post:", err)
		}

		log.Printf("APIcommand: received /command request (command: %q) from %s.\n",
			cp.Command, r.RemoteAddr)

		resp := jukebox.CommandResponse{
			Time:   time.Now(),
			Client: r.RemoteAddr,
		}

		before := h.UART.LastSeq()
		if err := h.UART.Inject(cp.Command); err != nil {
			resp.Error = true
			switch {
			case errors.Is(err, hw.ErrRxDisabled):
				resp.ErrorMsg = "jukebox is off, serial receiver disabled"
			case errors.Is(err, hw.ErrRxBusy):
				resp.ErrorMsg = "jukebox has not read the previous line yet, try again"
			default:
				resp.ErrorMsg = err.Error()
			}
			sendJSON(w, resp)
			return
		}
		if conf.Internal.UpdateC != nil {
			select {
			case conf.Internal.UpdateC <- jukebox.JournalUpdate{Type: jukebox.JournalMessage,
				Time: time.Now(), Direction: "rx", Text: cp.Command}:
			default:
			}
		}

		wait := DefaultCommandWait
		if cp.WaitMs > 0 {
			wait = time.Duration(cp.WaitMs) * time.Millisecond
		}
		if wait > MaxCommandWait {
			wait = MaxCommandWait
		}

		for _, l := range collectOutput(h.UART, before, wait) {
			resp.Output = append(resp.Output, jukebox.OutputLine{Seq: l.Seq, Time: l.Time, Text: l.Text})
		}
		resp.Msg = fmt.Sprintf("sent %q, %d line(s) of output", cp.Command, len(resp.Output))
		sendJSON(w, resp)
	}
}

// collectOutput waits up to wait for output after seq. It returns early
// once output has started and then gone quiet.
func collectOutput(u *hw.UART, seq uint64, wait time.Duration) []hw.OutputLine {
	const quiet = 50 * time.Millisecond
	deadline := time.Now().Add(wait)
	last := seq
	var lastChange time.Time
	for time.Now().Before(deadline) {
		if s := u.LastSeq(); s != last {
			last = s
			lastChange = time.Now()
		} else if last != seq && time.Since(lastChange) > quiet {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	return u.Lines(seq)
}

func APIbutton(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	h := conf.Internal.Hardware
	return func(w http.ResponseWriter, r *http.Request) {
		var bp jukebox.ButtonPost
		if err := json.NewDecoder(r.Body).Decode(&bp); err != nil {
			log.Println("APIbutton: error decoding button post:", err)
		}

		log.Printf("APIbutton: received /button request (action: %s) from %s.\n",
			bp.Action, r.RemoteAddr)

		resp := jukebox.ButtonResponse{Time: time.Now()}
		switch bp.Action {
		case "press":
			h.Button.Press()
			resp.Msg = "button pressed"
		case "release":
			h.Button.Release()
			resp.Msg = "button released"
		case "click":
			hold := bp.HoldMs
			if hold <= 0 {
				hold = DefaultClickMs
			}
			h.Button.Press()
			h.Clock.AfterFunc(uint32(hold), h.Button.Release)
			resp.Msg = fmt.Sprintf("button clicked, held for %d ms", hold)
		default:
			resp.Error = true
			resp.ErrorMsg = fmt.Sprintf("unknown button action: %q", bp.Action)
		}
		sendJSON(w, resp)
	}
}

func APIremote(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	h := conf.Internal.Hardware
	return func(w http.ResponseWriter, r *http.Request) {
		var rp jukebox.RemotePost
		if err := json.NewDecoder(r.Body).Decode(&rp); err != nil {
			log.Println("APIremote: error decoding remote post:", err)
		}

		resp := jukebox.RemoteResponse{Time: time.Now()}
		if h.IR == nil {
			resp.Error = true
			resp.ErrorMsg = "remote control is not enabled"
			sendJSON(w, resp)
			return
		}

		code := rp.Code
		if code == 0 && rp.Key != "" {
			for c, cmd := range conf.Internal.Keymap {
				if cmd == rp.Key {
					code = c
					break
				}
			}
			if code == 0 {
				resp.Error = true
				resp.ErrorMsg = fmt.Sprintf("no key mapped to %q", rp.Key)
				sendJSON(w, resp)
				return
			}
		}

		log.Printf("APIremote: replaying NEC code %#08x for %s.\n", code, r.RemoteAddr)
		go h.IR.Replay(code, necReplayPace)
		resp.Msg = fmt.Sprintf("sent code %#08x", code)
		sendJSON(w, resp)
	}
}

func APIjournal(conf *Config) func(w http.ResponseWriter, r *http.Request) {
	jdb := conf.Internal.JournalDB
	return func(w http.ResponseWriter, r *http.Request) {
		var jp jukebox.JournalPost
		if err := json.NewDecoder(r.Body).Decode(&jp); err != nil {
			log.Println("APIjournal: error decoding journal post:", err)
		}

		resp := jukebox.JournalResponse{
			Time:   time.Now(),
			Client: r.RemoteAddr,
		}
		if jdb == nil {
			resp.Error = true
			resp.ErrorMsg = "no journal configured"
			sendJSON(w, resp)
			return
		}

		var err error
		switch jp.Command {
		case "messages":
			resp.Messages, err = jdb.Messages(jp.Limit)
			resp.Msg = fmt.Sprintf("%d messages", len(resp.Messages))
		case "transitions", "":
			resp.Transitions, err = jdb.Transitions(jp.Limit, jp.Machine)
			resp.Msg = fmt.Sprintf("%d transitions", len(resp.Transitions))
		default:
			err = fmt.Errorf("unknown journal command: %q", jp.Command)
		}
		if err != nil {
			resp.Error = true
			resp.ErrorMsg = err.Error()
		}
		sendJSON(w, resp)
	}
}

func SetupRouter(conf *Config) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/", homeLink)

	sr := r.PathPrefix("/api/v1").Headers("X-API-Key", conf.ApiServer.ApiKey).Subrouter()
	sr.HandleFunc("/ping", APIping(conf)).Methods("POST")
	sr.HandleFunc("/status", APIstatus(conf)).Methods("POST")
	sr.HandleFunc("/command", APIcommand(conf)).Methods("POST")
	sr.HandleFunc("/button", APIbutton(conf)).Methods("POST")
	sr.HandleFunc("/remote", APIremote(conf)).Methods("POST")
	sr.HandleFunc("/journal", APIjournal(conf)).Methods("POST")

	return r
}

func walkRoutes(router *mux.Router, address string) {
	log.Printf("Defined API endpoints for router on: %s\n", address)

	walker := func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		for m := range methods {
			log.Printf("%-6s %s\n", methods[m], path)
		}
		return nil
	}
	if err := router.Walk(walker); err != nil {
		log.Panicf("Logging err: %s\n", err.Error())
	}
}

// APIdispatcher serves the API until done is closed.
func APIdispatcher(conf *Config, done <-chan struct{}) {
	router := SetupRouter(conf)
	address := conf.ApiServer.Address
	if conf.Common.Verbose {
		walkRoutes(router, address)
	}

	srv := &http.Server{Addr: address, Handler: router}
	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Println("Starting API dispatcher. Listening on", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("APIdispatcher: %v", err)
	}
	log.Println("API dispatcher: stopped.")
}
