package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SendRequest posts data to endpoint and decodes the reply into resp.
func SendRequest(endpoint string, data, resp interface{}) (int, error) {
	bytebuf := new(bytes.Buffer)
	if err := json.NewEncoder(bytebuf).Encode(data); err != nil {
		return 0, fmt.Errorf("error encoding %s request: %w", endpoint, err)
	}

	status, buf, err := api.Post(endpoint, bytebuf.Bytes())
	if err != nil {
		return status, fmt.Errorf("error from api.Post(%s): %w", endpoint, err)
	}
	if cliconf.Debug {
		fmt.Printf("SendRequest %s Status: %d\n", endpoint, status)
	}
	if status != 200 {
		return status, fmt.Errorf("%s: jukeboxd returned status %d (wrong api key?)", endpoint, status)
	}

	if err := json.Unmarshal(buf, resp); err != nil {
		return status, fmt.Errorf("error from unmarshal: %w", err)
	}
	return status, nil
}

func PrintErrors(iserr bool, errmsg, msg string) {
	if iserr {
		fmt.Printf("Error: %s\n", errmsg)
		return
	}
	if cliconf.Verbose && msg != "" {
		fmt.Printf("%s\n", msg)
	}
}
