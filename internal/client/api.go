package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eyewear-tracker-go/internal/domain/wearlog"
	"eyewear-tracker-go/internal/platform/errors"
)

// API talks to the usage log store over HTTP. It performs no retries;
// every failure surfaces to the caller.
type API struct {
	baseURL string
	httpc   *http.Client
}

// NewAPI creates a client for the given base URL, e.g.
// "http://localhost:3000/api".
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// DeleteResult is the store's response to a single-log delete.
type DeleteResult struct {
	Message   string         `json:"message"`
	LatestLog *wearlog.Entry `json:"latestLog"`
}

// ClearResult is the store's response to a full wipe.
type ClearResult struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// SaveLog upserts one wear record.
func (a *API) SaveLog(ctx context.Context, log wearlog.UpsertInput) (*wearlog.Entry, error) {
	var saved wearlog.Entry
	if err := a.do(ctx, http.MethodPost, "/logs", log, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Logs fetches every record for a token, date descending.
func (a *API) Logs(ctx context.Context, token string) ([]wearlog.Entry, error) {
	var logs []wearlog.Entry
	if err := a.do(ctx, http.MethodGet, "/logs/"+token, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// LatestLog fetches the most recent record, nil when the owner has none.
func (a *API) LatestLog(ctx context.Context, token string) (*wearlog.Entry, error) {
	var log *wearlog.Entry
	if err := a.do(ctx, http.MethodGet, "/logs/"+token+"/latest", nil, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// MonthlyLogs fetches the records of one calendar month, date ascending.
func (a *API) MonthlyLogs(ctx context.Context, token string, year, month int) ([]wearlog.Entry, error) {
	var logs []wearlog.Entry
	path := fmt.Sprintf("/logs/%s/monthly/%d/%d", token, year, month)
	if err := a.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Summary fetches the owner's aggregate statistics.
func (a *API) Summary(ctx context.Context, token string) (*wearlog.Summary, error) {
	var summary wearlog.Summary
	if err := a.do(ctx, http.MethodGet, "/logs/"+token+"/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteLog removes one record and returns the store's recomputed latest.
func (a *API) DeleteLog(ctx context.Context, token, date string) (*DeleteResult, error) {
	var result DeleteResult
	if err := a.do(ctx, http.MethodDelete, "/logs/"+token+"/"+date, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClearLogs wipes every record for every owner.
func (a *API) ClearLogs(ctx context.Context) (*ClearResult, error) {
	var result ClearResult
	if err := a.do(ctx, http.MethodDelete, "/logs", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.KindTransport, "api.request", "failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(errors.KindTransport, "api.request", "failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return errors.Wrap(errors.KindTransport, "api.request", "store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		message := payload.Error
		if message == "" {
			message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		kind := errors.KindTransport
		switch resp.StatusCode {
		case http.StatusBadRequest:
			kind = errors.KindValidation
		case http.StatusNotFound:
			kind = errors.KindNotFound
		}
		return errors.New(kind, "api."+strings.ToLower(method), message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.KindTransport, "api.response", "failed to decode response", err)
	}
	return nil
}
