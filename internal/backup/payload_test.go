package backup

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func subscription(id, name, cost string, period models.BillingPeriod) models.Subscription {
	created := time.Date(2026, 3, 1, 12, 0, 0, 250, time.UTC)
	return models.Subscription{
		ID:                   id,
		Name:                 name,
		Cost:                 decimal.RequireFromString(cost),
		Currency:             "USD",
		BillingPeriod:        period,
		StartDate:            models.Date(2026, 1, 10),
		NextBillingDate:      models.Date(2026, 11, 10),
		Status:               models.StatusActive,
		NotificationsEnabled: true,
		NotifyDaysBefore:     3,
		CreatedAt:            created,
		UpdatedAt:            created.Add(time.Hour),
	}
}

// scenarioSubscriptions are the three records of the end-to-end scenarios.
func scenarioSubscriptions() []models.Subscription {
	adobe := subscription("sub-adobe", "Adobe CC", "52.99", models.BillingAnnually)
	trial := models.Date(2026, 1, 24)
	adobe.TrialEndDate = &trial
	adobe.Description = strPtr("Creative Cloud all apps")
	adobe.Category = "Work"
	adobe.Tags = []string{"design", "photo"}
	adobe.Notes = "paid by company card"
	adobe.WebsiteURL = strPtr("https://adobe.com")
	adobe.SupportEmail = strPtr("support@adobe.com")
	adobe.NextBillingDate = models.Date(2027, 1, 10)

	return []models.Subscription{
		subscription("sub-netflix", "Netflix", "9.99", models.BillingMonthly),
		subscription("sub-spotify", "Spotify", "4.99", models.BillingMonthly),
		adobe,
	}
}

func fromPayload(t *testing.T, p *Payload) []models.Subscription {
	t.Helper()
	out := make([]models.Subscription, 0, len(p.Subscriptions))
	for _, r := range p.Subscriptions {
		s, err := r.ToSubscription()
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestSerialize_RoundTrip(t *testing.T) {
	for name, subs := range map[string][]models.Subscription{
		"empty":    {},
		"scenario": scenarioSubscriptions(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := Serialize(subs, Version, fixedNow)
			require.NoError(t, err)

			p, err := Deserialize(data)
			require.NoError(t, err)
			assert.Equal(t, Version, p.Version)
			assert.Equal(t, "2026-10-15T09:30:00Z", p.CreatedAt)
			assert.Zero(t, p.Undecodable)

			if diff := cmp.Diff(subs, fromPayload(t, p)); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	subs := scenarioSubscriptions()
	a, err := Serialize(subs, Version, fixedNow)
	require.NoError(t, err)
	b, err := Serialize(subs, Version, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	s := string(a)
	assert.True(t, strings.HasPrefix(s, `{"version":"1.0","created_at":"2026-10-15T09:30:00Z","subscriptions":[{"id":"sub-netflix","name":"Netflix","description":null,"cost":"9.99",`), s)
	assert.Contains(t, s, `"trial_end_date":null`)
	assert.Contains(t, s, `"trial_end_date":"2026-01-24"`)
	assert.Contains(t, s, `"billing_period":"ANNUALLY"`)
	assert.Contains(t, s, `"tags":[]`)
	assert.Contains(t, s, `"cost":"52.99"`)
}

func TestSerialize_EmptyList(t *testing.T) {
	data, err := Serialize(nil, Version, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"subscriptions":[]`)

	p, err := Deserialize(data)
	require.NoError(t, err)
	require.NotNil(t, p.Subscriptions)
	assert.Empty(t, p.Subscriptions)
}

func TestDeserialize_Malformed(t *testing.T) {
	for name, in := range map[string]string{
		"empty":               "",
		"garbage":             "not json",
		"truncated":           `{"version":"1.0","subscriptions":[`,
		"array":               `[]`,
		"null":                `null`,
		"string":              `"1.0"`,
		"subscriptions obj":   `{"version":"1.0","subscriptions":{}}`,
		"subscriptions 'str'": `{"version":"1.0","subscriptions":"none"}`,
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Deserialize([]byte(in))
			require.ErrorIs(t, err, ErrMalformedPayload)
			assert.Nil(t, p)
		})
	}
}

func TestDeserialize_VersionReadFirst(t *testing.T) {
	for name, tc := range map[string]struct {
		in    string
		found string
	}{
		"newer":            {`{"version":"2.0","created_at":"2026-10-15T09:30:00Z","subscriptions":[]}`, `"2.0"`},
		"reshaped list":    {`{"version":"2.0","created_at":"2026-10-15T09:30:00Z","subscriptions":{"items":[]}}`, `"2.0"`},
		"numeric created":  {`{"version":"2.0","created_at":1760520600,"subscriptions":[]}`, `"2.0"`},
		"numeric version":  {`{"version":2,"created_at":"2026-10-15T09:30:00Z","subscriptions":[]}`, `2`},
		"number like ours": {`{"version":1.0,"created_at":"2026-10-15T09:30:00Z","subscriptions":[]}`, `1.0`},
		"null version":     {`{"version":null,"subscriptions":[]}`, `null`},
		"missing":          {`{"created_at":"2026-10-15T09:30:00Z","subscriptions":[]}`, ``},
		"wrong case":       {`{"VERSION":"1.0","created_at":"2026-10-15T09:30:00Z","subscriptions":[]}`, ``},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Deserialize([]byte(tc.in))
			assert.Nil(t, p)
			var verr *VersionError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.found, verr.Found)
			assert.NotErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDeserialize_ExactMemberNames(t *testing.T) {
	in := `{"version":"1.0","created_at":"2026-10-15T09:30:00Z",
		"Subscriptions":[{"id":"x","name":"X","cost":"1.00"}],
		"subscriptions":[{"ID":"upper","id":"a","Name":"Wrong","name":"A","COST":"9.00","cost":"1.00"}]}`

	p, err := Deserialize([]byte(in))
	require.NoError(t, err)
	require.Len(t, p.Subscriptions, 1)
	got := p.Subscriptions[0]
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "1.00", got.Cost)

	p, err = Deserialize([]byte(`{"version":"1.0","created_at":"2026-10-15T09:30:00Z","Subscriptions":[]}`))
	require.NoError(t, err)
	assert.Nil(t, p.Subscriptions, "a differently cased list is not the subscription list")

	p, err = Deserialize([]byte(`{"version":"1.0","subscriptions":[{"Id":"a","Name":"A"}]}`))
	require.NoError(t, err)
	require.Len(t, p.Subscriptions, 1)
	assert.Empty(t, p.Subscriptions[0].ID)
	assert.Empty(t, p.Subscriptions[0].Name)
}

func TestDeserialize_NonStringCreatedAtKeptVerbatim(t *testing.T) {
	p, err := Deserialize([]byte(`{"version":"1.0","created_at":1760520600,"subscriptions":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "1760520600", p.CreatedAt)
}

func TestDeserialize_MissingSubscriptions(t *testing.T) {
	for _, in := range []string{
		`{"version":"1.0","created_at":"2026-10-15T09:30:00Z"}`,
		`{"version":"1.0","created_at":"2026-10-15T09:30:00Z","subscriptions":null}`,
	} {
		p, err := Deserialize([]byte(in))
		require.NoError(t, err)
		assert.Nil(t, p.Subscriptions)
	}
}

func TestDeserialize_UndecodableEntriesAreCounted(t *testing.T) {
	in := `{"version":"1.0","created_at":"2026-10-15T09:30:00Z","subscriptions":[
		{"id":"a","name":"A","cost":"1.00"},
		{"id":"b","name":"B","cost":1.00},
		"oops",
		{"id":"c","name":"C","cost":"2.00","unknown_field":true}
	]}`

	p, err := Deserialize([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Undecodable)
	require.Len(t, p.Subscriptions, 2)
	assert.Equal(t, "a", p.Subscriptions[0].ID)
	assert.Equal(t, "c", p.Subscriptions[1].ID)
}

func TestRecord_ToSubscription_Errors(t *testing.T) {
	base := ToRecord(scenarioSubscriptions()[0])

	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"cost", func(r *Record) { r.Cost = "nine" }},
		{"empty cost", func(r *Record) { r.Cost = "" }},
		{"period", func(r *Record) { r.BillingPeriod = "FORTNIGHTLY" }},
		{"status", func(r *Record) { r.Status = "GONE" }},
		{"start date", func(r *Record) { r.StartDate = "2026-13-01" }},
		{"next billing date", func(r *Record) { r.NextBillingDate = "" }},
		{"trial end", func(r *Record) { r.TrialEndDate = strPtr("soon") }},
		{"created_at", func(r *Record) { r.CreatedAt = "yesterday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			_, err := r.ToSubscription()
			require.Error(t, err)
		})
	}
}

func TestRecord_ToSubscription_Normalizes(t *testing.T) {
	r := ToRecord(scenarioSubscriptions()[0])
	r.Currency = " eur "
	r.BillingPeriod = "monthly"
	r.Status = "trial"
	r.CreatedAt = ""
	r.Tags = []string{}

	s, err := r.ToSubscription()
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, models.BillingMonthly, s.BillingPeriod)
	assert.Equal(t, models.StatusTrial, s.Status)
	assert.True(t, s.CreatedAt.IsZero())
	assert.Nil(t, s.Tags)
}
