package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
)

// MyMemory uses the public MyMemory API. It has no detection endpoint.
type MyMemory struct {
	client  jsonClient
	baseURL string
	email   string
	log     *slog.Logger
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string  `json:"translatedText"`
		Match          float64 `json:"match"`
	} `json:"responseData"`
	ResponseStatus  flexStatus `json:"responseStatus"`
	ResponseDetails string     `json:"responseDetails"`
}

// flexStatus accepts the status as a number or a quoted number; MyMemory
// sends both depending on the error path.
type flexStatus int

func (s *flexStatus) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid responseStatus %q", b)
	}
	*s = flexStatus(n)
	return nil
}

func NewMyMemory(cfg config.MyMemoryConfig, timeout time.Duration, log *slog.Logger) *MyMemory {
	return &MyMemory{
		client:  newJSONClient(timeout),
		baseURL: cfg.URL,
		email:   cfg.Email,
		log:     log.With("component", "mymemory"),
	}
}

func (t *MyMemory) Name() string { return BackendMyMemory }

func (t *MyMemory) Translate(ctx context.Context, req Request) (string, error) {
	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", regionalChinese(req.Source)+"|"+regionalChinese(req.Target))
	if t.email != "" {
		q.Set("de", t.email)
	}

	var resp myMemoryResponse
	if err := t.client.do(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil, &resp); err != nil {
		t.log.ErrorContext(ctx, "Translate request failed", "source", req.Source, "target", req.Target, "error", err)
		return "", apperrors.NewTranslationError(t.Name(), "translate failed", err)
	}

	if resp.ResponseStatus != http.StatusOK {
		err := fmt.Errorf("%s (status %d)", resp.ResponseDetails, int(resp.ResponseStatus))
		t.log.WarnContext(ctx, "Translate rejected", "status", int(resp.ResponseStatus), "details", resp.ResponseDetails)
		return "", apperrors.NewTranslationError(t.Name(), "translate rejected", err)
	}

	return resp.ResponseData.TranslatedText, nil
}

func (t *MyMemory) Close() error { return nil }

var _ json.Unmarshaler = (*flexStatus)(nil)
