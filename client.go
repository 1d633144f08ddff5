package apkcfg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

// Client resolves Options against a remote `apkcfg serve`.
type Client struct {
	HTTPClient *http.Client
	Base       *url.URL
}

func (c *Client) init() error {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Base == nil {
		rawURL := os.Getenv("APKCFG_URL")
		if rawURL == "" {
			rawURL = "http://localhost:8080/"
		}

		var err error
		c.Base, err = url.Parse(rawURL)
		return err
	}
	return nil
}

func errorFromResponse(res *http.Response) error {
	body := map[string]string{}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		if body["error"] != "" {
			return fmt.Errorf("http status code %d: %s", res.StatusCode, body["error"])
		}
	}

	return fmt.Errorf("http status code %d", res.StatusCode)
}

// Resolve sends opts to the server to be resolved. signingConfigs
// are registered alongside the server's own for this request only.
func (c *Client) Resolve(ctx context.Context, opts Options, strict bool, signingConfigs ...SigningConfig) (BuildDescriptor, error) {
	d := BuildDescriptor{}

	if err := c.init(); err != nil {
		return d, err
	}

	body := map[string]any{}
	for k, v := range opts {
		body[k] = v
	}

	if len(signingConfigs) > 0 {
		// SigningConfig omits passwords from its JSON encoding.
		scs := map[string]map[string]string{}
		for _, sc := range signingConfigs {
			scs[sc.Name] = map[string]string{
				"storeFile":     sc.StoreFile,
				"storePassword": sc.StorePassword,
				"keyAlias":      sc.KeyAlias,
				"keyPassword":   sc.KeyPassword,
			}
		}
		body["signingConfigs"] = scs
	}

	b, err := json.Marshal(body)
	if err != nil {
		return d, err
	}

	u := c.Base.JoinPath("/api/v1/descriptors")
	if strict {
		u.RawQuery = url.Values{"strict": []string{strconv.FormatBool(strict)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return d, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return d, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return d, errorFromResponse(res)
	}

	if err = json.NewDecoder(res.Body).Decode(&d); err != nil {
		return d, err
	}

	return d, nil
}

func (c *Client) Platform(ctx context.Context) (*PlatformStatus, error) {
	if err := c.init(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base.JoinPath("/api/v1/platform").String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errorFromResponse(res)
	}

	status := &PlatformStatus{}
	if err = json.NewDecoder(res.Body).Decode(status); err != nil {
		return nil, err
	}

	return status, nil
}

func (c *Client) Readyz(ctx context.Context) error {
	if err := c.init(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base.JoinPath("/readyz").String(), nil)
	if err != nil {
		return err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("http status code %d", res.StatusCode)
	}

	return nil
}

func (c *Client) Healthz(ctx context.Context) error {
	if err := c.init(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base.JoinPath("/healthz").String(), nil)
	if err != nil {
		return err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("http status code %d", res.StatusCode)
	}

	return nil
}
