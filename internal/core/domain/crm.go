package domain

import "time"

// ClientLink is the lightweight client reference embedded in an agent
// document.
type ClientLink struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// Agent is a sales agent profile. Code doubles as the entity code on the
// agent's credential record.
type Agent struct {
	ID      string       `json:"id" bson:"_id,omitempty"`
	Code    string       `json:"code" bson:"code"`
	Name    string       `json:"name" bson:"name"`
	Email   string       `json:"email" bson:"email"`
	Phone   string       `json:"phone" bson:"phone"`
	Clients []ClientLink `json:"clients" bson:"clients"`
}

// Client is a customer profile. Code is the entity code on the client's
// credential record and the foreign key on movements.
type Client struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	Code      string `json:"code" bson:"code"`
	Name      string `json:"name" bson:"name"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	Province  string `json:"province" bson:"province"`
	AgentCode string `json:"agent_code" bson:"agent_code"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	VATNumber string `json:"vat_number" bson:"vat_number"`
}

// Movement is a single sales ledger line. Several lines share a ListNumber
// when they belong to the same order.
type Movement struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ListNumber  int       `json:"list_number" bson:"list_number"`
	Date        time.Time `json:"date" bson:"date"`
	ClientCode  string    `json:"client_code" bson:"client_code"`
	ClientName  string    `json:"client_name" bson:"client_name"`
	AgentCode   string    `json:"agent_code" bson:"agent_code"`
	Brand       string    `json:"brand" bson:"brand"`
	Description string    `json:"description" bson:"description"`
	Quantity    float64   `json:"quantity" bson:"quantity"`
	UnitPrice   float64   `json:"unit_price" bson:"unit_price"`
	Total       float64   `json:"total" bson:"total"`
	Kind        string    `json:"kind" bson:"kind"`
}

// Visit records an agent calling on a client.
type Visit struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	AgentCode  string    `json:"agent_code" bson:"agent_code"`
	ClientCode string    `json:"client_code" bson:"client_code"`
	Date       time.Time `json:"date" bson:"date"`
	Type       string    `json:"type" bson:"type"`
	Reason     string    `json:"reason" bson:"reason"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Completed  bool      `json:"completed" bson:"completed"`
}

// Promo is a time-bounded promotional campaign visible to all roles.
type Promo struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Discount    float64   `json:"discount" bson:"discount"`
	StartDate   time.Time `json:"start_date" bson:"start_date"`
	EndDate     time.Time `json:"end_date" bson:"end_date"`
}

// Alert is a targeted notification. Receiver is either a role name or an
// entity code.
type Alert struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Sender    string    `json:"sender" bson:"sender"`
	Receiver  string    `json:"receiver" bson:"receiver"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Priority  string    `json:"priority" bson:"priority"`
	IssuedAt  time.Time `json:"issued_at" bson:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// Active reports whether the alert should still be shown at the given
// instant.
func (a *Alert) Active(now time.Time) bool {
	return a.ExpiresAt.IsZero() || now.Before(a.ExpiresAt)
}
