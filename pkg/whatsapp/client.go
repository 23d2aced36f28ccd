package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL     string
	Username    string
	Password    string
	Path        string
	CountryCode string
	HTTPClient  *http.Client
}

type SendMessageRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	IsForwarded bool   `json:"is_forwarded"`
	Duration    int    `json:"duration"`
}

type SendMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Status    string `json:"status"`
	} `json:"data"`
}

func NewClient(baseURL, username, password, path, countryCode string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Username:    username,
		Password:    password,
		Path:        strings.Trim(path, "/"),
		CountryCode: countryCode,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NormalizePhone converts a local number (leading 0) to international form
// without the plus sign, dropping spaces and dashes.
func (c *Client) NormalizePhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	case strings.HasPrefix(phone, "00"):
		return phone[2:]
	case strings.HasPrefix(phone, "0") && c.CountryCode != "":
		return c.CountryCode + phone[1:]
	}
	return phone
}

// Send message via WhatsApp
func (c *Client) SendMessage(ctx context.Context, phone, message string) (*SendMessageResponse, error) {
	requestData := SendMessageRequest{
		Phone:   c.NormalizePhone(phone) + "@s.whatsapp.net",
		Message: message,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/%s/send/message", c.BaseURL, c.Path)
	if c.Path == "" {
		url = c.BaseURL + "/send/message"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response SendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return &response, fmt.Errorf("gateway rejected message: %s", response.Message)
	}

	return &response, nil
}

// Send simple text message
func (c *Client) SendTextMessage(ctx context.Context, phone, message string) error {
	_, err := c.SendMessage(ctx, phone, message)
	return err
}
