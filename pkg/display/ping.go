package display

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// PingUntil polls the ping endpoint once a second and invokes the
// callback when the server answers, so the native window only navigates
// to a server that is ready.
func PingUntil(ctx context.Context, baseURL string, callback func()) {
	pingURL := baseURL + "/api/ping"
	timeout := time.NewTimer(3 * time.Minute)
	defer timeout.Stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {

		case <-timeout.C:
			log.Warnf("ping hits 3 minute timeout")
			return

		case <-ctx.Done():
			return

		case <-ticker.C:
			var response map[string]interface{}
			var err = getJSON(ctx, pingURL, &response)
			if err == nil {
				callback()
				return
			}
		}
	}
}

func getJSON(ctx context.Context, url string, payload interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(payload)
}
