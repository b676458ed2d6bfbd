// pkg/calcom/calcom.go
package calcom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	apiBaseV1     = "https://api.cal.com/v1"
	apiBaseV2     = "https://api.cal.com/v2"
	calAPIVersion = "2024-08-13"
)

// Client wraps the Cal.com REST API. FurnishCare delegates all calendar
// management there; this client only cancels bookings, tunes daily capacity
// and mints one-shot booking links.
type Client struct {
	apiKey      string
	eventTypeID string
	http        *http.Client
}

var GlobalClient *Client

func InitClient(apiKey, eventTypeID string) error {
	if apiKey == "" {
		return fmt.Errorf("CALCOM_API_KEY is required")
	}
	if eventTypeID == "" {
		return fmt.Errorf("CALCOM_EVENT_TYPE_ID is required")
	}

	GlobalClient = &Client{
		apiKey:      apiKey,
		eventTypeID: eventTypeID,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
	return nil
}

func (c *Client) doJSON(method, url string, body interface{}, extraHeaders map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling cal.com: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("cal.com API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// CancelBooking releases a reserved slot, used when a booking webhook arrives
// for a customer who is not entitled to a visit. Failures are logged, not
// returned: there is nothing the caller can do about a slot we failed to free.
func (c *Client) CancelBooking(bookingUID string) {
	url := fmt.Sprintf("%s/bookings/%s/cancel", apiBaseV2, bookingUID)
	body := map[string]interface{}{
		"cancellationReason":       "cancelled by server",
		"cancelSubsequentBookings": false,
	}

	_, err := c.doJSON(http.MethodPost, url, body, map[string]string{
		"cal-api-version": calAPIVersion,
	})
	if err != nil {
		log.Printf("Error cancelling cal.com booking %s: %v", bookingUID, err)
	}
}

// GetDailyCapacity reads seatsPerTimeSlot off the service event type.
func (c *Client) GetDailyCapacity() (int, error) {
	url := fmt.Sprintf("%s/event-types/%s?apiKey=%s", apiBaseV1, c.eventTypeID, c.apiKey)

	respBody, err := c.doJSON(http.MethodGet, url, nil, nil)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		EventType struct {
			SeatsPerTimeSlot int `json:"seatsPerTimeSlot"`
		} `json:"event_type"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fmt.Errorf("error parsing event type response: %v", err)
	}

	return parsed.EventType.SeatsPerTimeSlot, nil
}

// UpdateDailyCapacity sets how many service visits can be taken per day.
func (c *Client) UpdateDailyCapacity(capacity int) error {
	url := fmt.Sprintf("%s/event-types/%s?apiKey=%s", apiBaseV1, c.eventTypeID, c.apiKey)
	body := map[string]interface{}{
		"seatsPerTimeSlot": capacity,
	}

	_, err := c.doJSON(http.MethodPatch, url, body, nil)
	return err
}

// GenerateBookingLink mints a single-use private booking link for the service
// event type, handed out by admins for direct bookings.
func (c *Client) GenerateBookingLink() (string, error) {
	url := fmt.Sprintf("%s/event-types/%s/private-links", apiBaseV2, c.eventTypeID)
	body := map[string]interface{}{
		"maxUsageCount": 1,
	}

	respBody, err := c.doJSON(http.MethodPost, url, body, nil)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Data struct {
			BookingURL string `json:"bookingUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("error parsing private link response: %v", err)
	}

	return parsed.Data.BookingURL + "/furnishcare-service", nil
}
