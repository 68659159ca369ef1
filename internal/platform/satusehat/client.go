package satusehat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client pushes FHIR R4 resources to the Satu Sehat platform. Construction
// of the FHIR payloads happens at enqueue time; the client only transports
// them.
type Client struct {
	http   *resty.Client
	tokens *TokenManager
	orgID  string
}

// NewHTTPClient returns a resty client tuned for the Satu Sehat API.
func NewHTTPClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

func NewClient(http *resty.Client, tokens *TokenManager, orgID string) *Client {
	return &Client{http: http, tokens: tokens, orgID: orgID}
}

// Push sends one FHIR resource. A 401 invalidates the cached token and the
// push is retried once with a fresh one.
func (c *Client) Push(ctx context.Context, resourceType string, payload json.RawMessage) error {
	resp, err := c.push(ctx, resourceType, payload)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.tokens.Invalidate()
		resp, err = c.push(ctx, resourceType, payload)
		if err != nil {
			return err
		}
	}
	if resp.IsError() {
		return fmt.Errorf("push %s: status %d: %s", resourceType, resp.StatusCode(), resp.String())
	}
	return nil
}

func (c *Client) push(ctx context.Context, resourceType string, payload json.RawMessage) (*resty.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/fhir+json").
		SetBody([]byte(payload)).
		Post("/" + resourceType)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", resourceType, err)
	}
	return resp, nil
}

// PatientResource builds the FHIR Patient payload for the national registry.
func PatientResource(nik, name, gender, birthDate string) (json.RawMessage, error) {
	res := map[string]interface{}{
		"resourceType": "Patient",
		"identifier": []map[string]interface{}{{
			"system": "https://fhir.kemkes.go.id/id/nik",
			"value":  nik,
		}},
		"name":      []map[string]interface{}{{"use": "official", "text": name}},
		"gender":    gender,
		"birthDate": birthDate,
	}
	return json.Marshal(res)
}

// EncounterResource builds the FHIR Encounter payload for an outpatient or
// inpatient contact.
func EncounterResource(orgID, patientRef, practitionerRef, class string, start time.Time) (json.RawMessage, error) {
	res := map[string]interface{}{
		"resourceType": "Encounter",
		"status":       "finished",
		"class": map[string]interface{}{
			"system": "http://terminology.hl7.org/CodeSystem/v3-ActCode",
			"code":   class, // AMB outpatient, IMP inpatient
		},
		"subject": map[string]interface{}{"reference": patientRef},
		"participant": []map[string]interface{}{{
			"individual": map[string]interface{}{"reference": practitionerRef},
		}},
		"period":          map[string]interface{}{"start": start.Format(time.RFC3339)},
		"serviceProvider": map[string]interface{}{"reference": "Organization/" + orgID},
	}
	return json.Marshal(res)
}
