/*
 * apiclient.go
 *
 * Client side of the jukeboxd API.
 */
package jukebox

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// NewClient builds a client from the jukeboxd.* keys of the CLI config.
func NewClient(verbose, debug bool) *Api {
	return NewApiClient(viper.GetString("jukeboxd.baseurl"),
		viper.GetString("jukeboxd.apikey"),
		viper.GetString("jukeboxd.authmethod"), verbose, debug)
}

func NewApiClient(baseurl, apikey, authmethod string, verbose, debug bool) *Api {
	api := Api{
		Apiurl:     baseurl,
		apiKey:     apikey,
		Authmethod: authmethod,
		Client:     &http.Client{Timeout: 10 * time.Second},
		Verbose:    verbose,
		Debug:      debug,
	}

	if debug {
		fmt.Printf("apiurl is: %s \napikey is: %s \nauthmethod is: %s \n",
			api.Apiurl, api.apiKey, api.Authmethod)
	}
	return &api
}

func (api *Api) requestHelper(req *http.Request) (int, []byte, error) {
	req.Header.Add("Content-Type", "application/json")

	switch api.Authmethod {
	case "X-API-Key":
		req.Header.Add("X-API-Key", api.apiKey)
	case "Authorization":
		req.Header.Add("Authorization", fmt.Sprintf("token %s", api.apiKey))
	case "", "none":
		// no authentication header at all
	default:
		log.Printf("Error: Client API request: unknown auth method: %s. Aborting.\n", api.Authmethod)
		return 501, []byte{}, fmt.Errorf("unknown auth method: %s", api.Authmethod)
	}

	resp, err := api.Client.Do(req)
	if err != nil {
		return 501, nil, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if api.Debug {
		fmt.Printf("requestHelper: received %d bytes of response data: %v\n",
			len(buf), string(buf))
	}
	return resp.StatusCode, buf, err
}

func (api *Api) Post(endpoint string, data []byte) (int, []byte, error) {
	if api.Debug {
		fmt.Printf("api.Post: posting %d bytes of data: %v\n", len(data), string(data))
	}

	req, err := http.NewRequest(http.MethodPost, api.Apiurl+endpoint, bytes.NewBuffer(data))
	if err != nil {
		return 501, nil, fmt.Errorf("error from http.NewRequest: %w", err)
	}
	return api.requestHelper(req)
}

func (api *Api) Get(endpoint string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, api.Apiurl+endpoint, nil)
	if err != nil {
		return 501, nil, fmt.Errorf("error from http.NewRequest: %w", err)
	}
	return api.requestHelper(req)
}
