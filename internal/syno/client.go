// Package syno is the client for the Download Station WebAPI: session
// login, task listing and control, and server configuration.
package syno

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	apiInfoName = "SYNO.API.Info"
	apiAuth     = "SYNO.API.Auth"
	apiDSInfo   = "SYNO.DownloadStation.Info"
	apiDSTask   = "SYNO.DownloadStation.Task"

	// The extra sub-structures requested with list/getinfo calls.
	additionalFields = "detail,transfer,file,peer,tracker"
)

type apiInfo struct {
	Path       string `json:"path"`
	MinVersion int    `json:"minVersion"`
	MaxVersion int    `json:"maxVersion"`
}

// Client talks to one Download Station server. It is not safe for
// concurrent use; the TUI drives it from a single event loop.
type Client struct {
	baseURL string
	http    *http.Client
	sid     string
	apis    map[string]apiInfo
	log     zerolog.Logger
}

// NewClient builds a client for the given base URL (scheme://host:port).
// Self-signed certificates are accepted since NAS boxes rarely carry
// real ones.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	jar, _ := cookiejar.New(nil)
	rc.HTTPClient.Jar = jar
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    rc.StandardClient(),
		apis:    make(map[string]apiInfo),
		log:     log,
	}
}

type apiError struct {
	Code int `json:"code"`
}

// DiscoverAPIs queries the server for the path and version of every
// API, so later calls can address the right CGI endpoint.
func (c *Client) DiscoverAPIs(ctx context.Context) error {
	params := url.Values{
		"api":     {apiInfoName},
		"version": {"1"},
		"method":  {"query"},
		"query":   {"ALL"},
	}
	var resp struct {
		Success bool               `json:"success"`
		Data    map[string]apiInfo `json:"data"`
	}
	if err := c.getJSON(ctx, "/webapi/query.cgi", params, &resp); err != nil {
		return fmt.Errorf("querying available APIs: %w", err)
	}
	if !resp.Success || len(resp.Data) == 0 {
		return fmt.Errorf("API query returned no data")
	}
	c.apis = resp.Data
	c.log.Debug().Int("apis", len(resp.Data)).Msg("discovered server APIs")
	return nil
}

func (c *Client) apiPath(api string) (string, string, error) {
	info, ok := c.apis[api]
	if !ok {
		return "", "", fmt.Errorf("missing API info for %s", api)
	}
	return "/webapi/" + info.Path, strconv.Itoa(info.MaxVersion), nil
}

func (c *Client) taskParams(method string) (string, url.Values, error) {
	if c.sid == "" {
		return "", nil, fmt.Errorf("not logged in")
	}
	path, version, err := c.apiPath(apiDSTask)
	if err != nil {
		return "", nil, err
	}
	return path, url.Values{
		"api":     {apiDSTask},
		"version": {version},
		"method":  {method},
		"_sid":    {c.sid},
	}, nil
}

// Login opens a session and stores the returned sid. The session name
// is "DownloadStation" for the whole app lifetime.
func (c *Client) Login(ctx context.Context, account, password, session string) error {
	path, version, err := c.apiPath(apiAuth)
	if err != nil {
		return err
	}
	params := url.Values{
		"api":     {apiAuth},
		"method":  {"login"},
		"version": {version},
		"account": {account},
		"passwd":  {password},
		"session": {session},
		"format":  {"sid"},
	}
	var resp struct {
		Success bool `json:"success"`
		Data    *struct {
			SID string `json:"sid"`
		} `json:"data"`
		Error *apiError `json:"error"`
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error != nil {
			return &AuthError{Code: resp.Error.Code}
		}
		return &AuthError{Code: 0}
	}
	if resp.Data == nil || resp.Data.SID == "" {
		return &AuthError{Code: 0}
	}
	c.sid = resp.Data.SID
	c.log.Info().Str("account", account).Msg("logged in")
	return nil
}

// Logout closes the session. Best effort on shutdown.
func (c *Client) Logout(ctx context.Context, session string) error {
	path, version, err := c.apiPath(apiAuth)
	if err != nil {
		return err
	}
	params := url.Values{
		"api":     {apiAuth},
		"method":  {"logout"},
		"version": {version},
		"session": {session},
	}
	var resp struct {
		Success bool      `json:"success"`
		Error   *apiError `json:"error"`
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error != nil {
			return &AuthError{Code: resp.Error.Code}
		}
		return &AuthError{Code: 0}
	}
	c.sid = ""
	return nil
}

// ServerConfig mirrors the server-side download settings shown in the
// server-info popup.
type ServerConfig struct {
	BTMaxDownload           uint64  `json:"bt_max_download"`
	BTMaxUpload             uint64  `json:"bt_max_upload"`
	DefaultDestination      *string `json:"default_destination"`
	EmuleDefaultDestination *string `json:"emule_default_destination"`
	EmuleEnabled            bool    `json:"emule_enabled"`
	EmuleMaxDownload        uint64  `json:"emule_max_download"`
	EmuleMaxUpload          uint64  `json:"emule_max_upload"`
	FTPMaxDownload          uint64  `json:"ftp_max_download"`
	HTTPMaxDownload         uint64  `json:"http_max_download"`
	NZBMaxDownload          uint64  `json:"nzb_max_download"`
	UnzipServiceEnabled     bool    `json:"unzip_service_enabled"`
}

// GetServerConfig fetches the download limits and destinations.
func (c *Client) GetServerConfig(ctx context.Context) (*ServerConfig, error) {
	if c.sid == "" {
		return nil, fmt.Errorf("not logged in")
	}
	path, version, err := c.apiPath(apiDSInfo)
	if err != nil {
		return nil, err
	}
	params := url.Values{
		"api":     {apiDSInfo},
		"version": {version},
		"method":  {"getconfig"},
		"_sid":    {c.sid},
	}
	var resp struct {
		Success bool          `json:"success"`
		Data    *ServerConfig `json:"data"`
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, fmt.Errorf("getconfig returned success=false")
	}
	return resp.Data, nil
}

type taskListEnvelope struct {
	Success bool `json:"success"`
	Data    *struct {
		Offset int    `json:"offset"`
		Total  int    `json:"total"`
		Tasks  []Task `json:"tasks"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// ListTasks fetches the full task list with all extra sub-structures.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	path, params, err := c.taskParams("list")
	if err != nil {
		return nil, err
	}
	params.Set("additional", additionalFields)
	var resp taskListEnvelope
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, envelopeError("list", resp.Error)
	}
	c.log.Debug().Int("tasks", len(resp.Data.Tasks)).Msg("task list fetched")
	return resp.Data.Tasks, nil
}

// GetTaskDetails fetches the given tasks with all extra sub-structures.
func (c *Client) GetTaskDetails(ctx context.Context, ids []string) ([]Task, error) {
	path, params, err := c.taskParams("getinfo")
	if err != nil {
		return nil, err
	}
	params.Set("id", strings.Join(ids, ","))
	params.Set("additional", additionalFields)
	var resp taskListEnvelope
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, envelopeError("getinfo", resp.Error)
	}
	return resp.Data.Tasks, nil
}

// Pause pauses a task (or a comma-joined batch of ids).
func (c *Client) Pause(ctx context.Context, id string) error {
	return c.taskAction(ctx, "pause", id)
}

// Resume resumes a paused task.
func (c *Client) Resume(ctx context.Context, id string) error {
	return c.taskAction(ctx, "resume", id)
}

// Delete removes a task from the server.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.taskAction(ctx, "delete", id)
}

// taskAction runs one of the pause/resume/delete endpoints and unwraps
// the per-task result envelope. When several ids were addressed, the
// first failing id in list order is reported.
func (c *Client) taskAction(ctx context.Context, method, id string) error {
	path, params, err := c.taskParams(method)
	if err != nil {
		return err
	}
	params.Set("id", id)
	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Error int    `json:"error"`
			ID    string `json:"id"`
		} `json:"data"`
		Error *apiError `json:"error"`
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return envelopeError(method, resp.Error)
	}
	if resp.Data == nil {
		return fmt.Errorf("%s returned no data", method)
	}
	for _, result := range resp.Data {
		if result.Error != 0 {
			c.log.Warn().Str("op", method).Str("task", result.ID).Int("code", result.Error).Msg("task action failed")
			return &ActionError{Op: method, ID: result.ID, Code: result.Error}
		}
	}
	return nil
}

// CreateTaskFromURL adds a download task for the given URI.
func (c *Client) CreateTaskFromURL(ctx context.Context, uri string) error {
	path, params, err := c.taskParams("create")
	if err != nil {
		return err
	}
	params.Set("uri", uri)
	var resp struct {
		Success bool      `json:"success"`
		Error   *apiError `json:"error"`
	}
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return err
	}
	if resp.Success {
		return nil
	}
	if resp.Error != nil {
		return &TaskError{Code: resp.Error.Code}
	}
	return fmt.Errorf("create returned success=false without error code")
}

// CreateTaskFromFile uploads a .torrent file as a new task. The payload
// is validated locally before anything is sent.
func (c *Client) CreateTaskFromFile(ctx context.Context, name string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if name == "" {
		return ErrEmptyFilePath
	}
	if !strings.HasSuffix(name, ".torrent") {
		return ErrNotTorrentFile
	}
	if c.sid == "" {
		return fmt.Errorf("not logged in")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	_ = form.WriteField("api", "SYNO.DownloadStation2.Task")
	_ = form.WriteField("version", "2")
	_ = form.WriteField("method", "create")
	_ = form.WriteField("type", `"file"`)
	_ = form.WriteField("file", `["torrent"]`)
	_ = form.WriteField("create_list", "false")
	part, err := form.CreateFormFile("torrent", name)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	endpoint := c.baseURL + "/webapi/entry.cgi?_sid=" + url.QueryEscape(c.sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	raw, err := c.do(req)
	if err != nil {
		return err
	}
	var resp struct {
		Success bool      `json:"success"`
		Error   *apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("parsing create response: %w", err)
	}
	if resp.Success {
		return nil
	}
	if resp.Error != nil {
		return &TaskError{Code: resp.Error.Code}
	}
	return fmt.Errorf("create returned success=false without error code")
}

func envelopeError(method string, apiErr *apiError) error {
	if apiErr != nil {
		return fmt.Errorf("%s failed: %s", method, taskErrorLabel(apiErr.Code))
	}
	return fmt.Errorf("%s returned success=false", method)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("url", req.URL.Path).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("url", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}
	return raw, nil
}
