package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/shopspring/decimal"
)

// Payload is the plaintext document sealed inside an artifact.
type Payload struct {
	Version       string   `json:"version"`
	CreatedAt     string   `json:"created_at"`
	Subscriptions []Record `json:"subscriptions"`

	// Undecodable counts subscription entries that were present but could
	// not be decoded into a Record. They are excluded from Subscriptions.
	Undecodable int `json:"-"`
}

// Record is the interchange form of models.Subscription. Cost and dates are
// canonical strings so the format does not depend on locale or platform.
type Record struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          *string  `json:"description"`
	Cost                 string   `json:"cost"`
	Currency             string   `json:"currency"`
	BillingPeriod        string   `json:"billing_period"`
	BillingCycleDays     int      `json:"billing_cycle_days"`
	StartDate            string   `json:"start_date"`
	NextBillingDate      string   `json:"next_billing_date"`
	TrialEndDate         *string  `json:"trial_end_date"`
	Status               string   `json:"status"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	NotifyDaysBefore     int      `json:"notify_days_before"`
	Category             string   `json:"category"`
	Tags                 []string `json:"tags"`
	Notes                string   `json:"notes"`
	WebsiteURL           *string  `json:"website_url"`
	SupportEmail         *string  `json:"support_email"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// ToRecord projects s into its interchange form.
func ToRecord(s models.Subscription) Record {
	r := Record{
		ID:                   s.ID,
		Name:                 s.Name,
		Description:          s.Description,
		Cost:                 s.Cost.String(),
		Currency:             s.Currency,
		BillingPeriod:        string(s.BillingPeriod),
		BillingCycleDays:     s.BillingCycleDays,
		StartDate:            models.FormatDate(s.StartDate),
		NextBillingDate:      models.FormatDate(s.NextBillingDate),
		Status:               string(s.Status),
		NotificationsEnabled: s.NotificationsEnabled,
		NotifyDaysBefore:     s.NotifyDaysBefore,
		Category:             s.Category,
		Tags:                 append([]string{}, s.Tags...),
		Notes:                s.Notes,
		WebsiteURL:           s.WebsiteURL,
		SupportEmail:         s.SupportEmail,
		CreatedAt:            formatTimestamp(s.CreatedAt),
		UpdatedAt:            formatTimestamp(s.UpdatedAt),
	}
	if s.TrialEndDate != nil {
		d := models.FormatDate(*s.TrialEndDate)
		r.TrialEndDate = &d
	}
	return r
}

// ToSubscription parses r back into a domain record. It only checks that
// every field parses; invariants are left to models.Subscription.Validate.
// Blank timestamps come back as the zero time.
func (r Record) ToSubscription() (models.Subscription, error) {
	s := models.Subscription{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		Currency:             strings.ToUpper(strings.TrimSpace(r.Currency)),
		BillingCycleDays:     r.BillingCycleDays,
		NotificationsEnabled: r.NotificationsEnabled,
		NotifyDaysBefore:     r.NotifyDaysBefore,
		Category:             r.Category,
		Notes:                r.Notes,
		WebsiteURL:           r.WebsiteURL,
		SupportEmail:         r.SupportEmail,
	}

	var err error
	if s.Cost, err = decimal.NewFromString(strings.TrimSpace(r.Cost)); err != nil {
		return s, fmt.Errorf("cost %q: %w", r.Cost, err)
	}
	if s.BillingPeriod, err = models.ParseBillingPeriod(r.BillingPeriod); err != nil {
		return s, err
	}
	if s.Status, err = models.ParseStatus(r.Status); err != nil {
		return s, err
	}
	if s.StartDate, err = models.ParseDate(r.StartDate); err != nil {
		return s, fmt.Errorf("start date: %w", err)
	}
	if s.NextBillingDate, err = models.ParseDate(r.NextBillingDate); err != nil {
		return s, fmt.Errorf("next billing date: %w", err)
	}
	if r.TrialEndDate != nil {
		d, err := models.ParseDate(*r.TrialEndDate)
		if err != nil {
			return s, fmt.Errorf("trial end date: %w", err)
		}
		s.TrialEndDate = &d
	}
	if s.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return s, fmt.Errorf("created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTimestamp(r.UpdatedAt); err != nil {
		return s, fmt.Errorf("updated_at: %w", err)
	}
	if len(r.Tags) > 0 {
		s.Tags = append([]string(nil), r.Tags...)
	}
	return s, nil
}

// Serialize encodes records as a version-tagged JSON document. Key order
// follows the struct field order, so equal input gives equal output.
func Serialize(records []models.Subscription, version string, createdAt time.Time) ([]byte, error) {
	p := Payload{
		Version:       version,
		CreatedAt:     createdAt.UTC().Format(time.RFC3339),
		Subscriptions: make([]Record, 0, len(records)),
	}
	for _, s := range records {
		p.Subscriptions = append(p.Subscriptions, ToRecord(s))
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// recordKeys are the exact member names of Record.
var recordKeys = jsonKeys(reflect.TypeFor[Record]())

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}

// Deserialize parses a document produced by Serialize. Member names are
// matched exactly. The version is read first: a document that is not
// Version returns a *VersionError whatever the rest of it looks like.
// Structural problems return ErrMalformedPayload and no payload. A missing
// or null "subscriptions" member leaves Payload.Subscriptions nil, while an
// empty array gives a non-nil empty slice.
func Deserialize(data []byte) (*Payload, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedPayload)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var version string
	if err := json.Unmarshal(doc["version"], &version); err != nil || version != Version {
		return nil, &VersionError{Found: string(doc["version"])}
	}
	p := &Payload{Version: version}

	// a non-string created_at is kept verbatim and fails the timestamp check
	if raw, ok := doc["created_at"]; ok {
		if err := json.Unmarshal(raw, &p.CreatedAt); err != nil {
			p.CreatedAt = string(raw)
		}
	}

	raw, ok := doc["subscriptions"]
	if !ok || string(raw) == "null" {
		return p, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: subscriptions is not an array", ErrMalformedPayload)
	}

	p.Subscriptions = make([]Record, 0, len(entries))
	for _, entry := range entries {
		r, err := decodeRecord(entry)
		if err != nil {
			p.Undecodable++
			continue
		}
		p.Subscriptions = append(p.Subscriptions, r)
	}
	return p, nil
}

// decodeRecord decodes one entry, ignoring members whose name is not an
// exact Record key.
func decodeRecord(entry json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return Record{}, err
	}
	for k := range fields {
		if _, ok := recordKeys[k]; !ok {
			delete(fields, k)
		}
	}
	exact, err := json.Marshal(fields)
	if err != nil {
		return Record{}, err
	}

	var r Record
	if err := json.Unmarshal(exact, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
