package activecampaign

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
)

// FlexInt decodes from a JSON number or a numeric string. ActiveCampaign is
// not consistent about which one it sends for status flags.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entities
// ──────────────────────────────────────────────────────────────────────────────

type Contact struct {
	ID        string `json:"id,omitempty"`
	CDate     string `json:"cdate,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	OrgID     string `json:"orgid,omitempty"`
}

type ContactList struct {
	ID      string   `json:"id,omitempty"`
	Contact string   `json:"contact,omitempty"`
	List    string   `json:"list,omitempty"`
	Status  *FlexInt `json:"status,omitempty"`
}

type Campaign struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
	CDate  string `json:"cdate,omitempty"`
	MDate  string `json:"mdate,omitempty"`
}

type List struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	StringID string `json:"stringid,omitempty"`
	CDate    string `json:"cdate,omitempty"`
}

type Deal struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Value    string `json:"value,omitempty"`
	Currency string `json:"currency,omitempty"`
	Status   string `json:"status,omitempty"`
}

type Account struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	AccountURL string `json:"accountUrl,omitempty"`
}

type Note struct {
	ID    string `json:"id,omitempty"`
	Note  string `json:"note,omitempty"`
	CDate string `json:"cdate,omitempty"`
}

type Tag struct {
	ID          string `json:"id,omitempty"`
	Tag         string `json:"tag,omitempty"`
	TagType     string `json:"tagType,omitempty"`
	Description string `json:"description,omitempty"`
}

type Message struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Subject   string `json:"subject,omitempty"`
	FromName  string `json:"fromname,omitempty"`
	FromEmail string `json:"fromemail,omitempty"`
}

type User struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type Pipeline struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type FieldValue struct {
	ID      string `json:"id,omitempty"`
	Contact string `json:"contact,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

type Automation struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Status  string `json:"status,omitempty"`
	Entered string `json:"entered,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Envelopes, one per entity family. Error and StatusCode are set only when
// the call failed; in that case every item field is left unset.
// ──────────────────────────────────────────────────────────────────────────────

type ContactResponse struct {
	Contacts    []Contact    `json:"contacts,omitempty"`
	ContactList *ContactList `json:"contactList,omitempty"`
	Error       string       `json:"error,omitempty"`
	StatusCode  *int         `json:"status_code,omitempty"`

	kind types.Kind
}

type CampaignResponse struct {
	Campaign   *Campaign      `json:"campaign,omitempty"`
	Campaigns  []Campaign     `json:"campaigns,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	Error      string         `json:"error,omitempty"`
	StatusCode *int           `json:"status_code,omitempty"`

	kind types.Kind
}

type ListResponse struct {
	List       *List  `json:"list,omitempty"`
	Lists      []List `json:"lists,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`

	kind types.Kind
}

type DealResponse struct {
	Deal       *Deal  `json:"deal,omitempty"`
	Deals      []Deal `json:"deals,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`

	kind types.Kind
}

type AccountResponse struct {
	Accounts   []Account `json:"accounts,omitempty"`
	Note       *Note     `json:"note,omitempty"`
	Error      string    `json:"error,omitempty"`
	StatusCode *int      `json:"status_code,omitempty"`

	kind types.Kind
}

type TagResponse struct {
	Tag        *Tag   `json:"tag,omitempty"`
	Tags       []Tag  `json:"tags,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`

	kind types.Kind
}

type MessageResponse struct {
	Message    *Message  `json:"message,omitempty"`
	Messages   []Message `json:"messages,omitempty"`
	Error      string    `json:"error,omitempty"`
	StatusCode *int      `json:"status_code,omitempty"`

	kind types.Kind
}

type UserResponse struct {
	User       *User  `json:"user,omitempty"`
	Users      []User `json:"users,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`

	kind types.Kind
}

type PipelineResponse struct {
	Pipeline   *Pipeline  `json:"pipeline,omitempty"`
	Pipelines  []Pipeline `json:"pipelines,omitempty"`
	Error      string     `json:"error,omitempty"`
	StatusCode *int       `json:"status_code,omitempty"`

	kind types.Kind
}

type FieldValueResponse struct {
	FieldValue  *FieldValue  `json:"fieldValue,omitempty"`
	FieldValues []FieldValue `json:"fieldValues,omitempty"`
	Error       string       `json:"error,omitempty"`
	StatusCode  *int         `json:"status_code,omitempty"`

	kind types.Kind
}

type AutomationResponse struct {
	Automation  *Automation  `json:"automation,omitempty"`
	Automations []Automation `json:"automations,omitempty"`
	Error       string       `json:"error,omitempty"`
	StatusCode  *int         `json:"status_code,omitempty"`

	kind types.Kind
}

func (r *ContactResponse) fail(msg string, code *int, kind types.Kind) {
	*r = ContactResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *CampaignResponse) fail(msg string, code *int, kind types.Kind) {
	*r = CampaignResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *ListResponse) fail(msg string, code *int, kind types.Kind) {
	*r = ListResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *DealResponse) fail(msg string, code *int, kind types.Kind) {
	*r = DealResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *AccountResponse) fail(msg string, code *int, kind types.Kind) {
	*r = AccountResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *TagResponse) fail(msg string, code *int, kind types.Kind) {
	*r = TagResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *MessageResponse) fail(msg string, code *int, kind types.Kind) {
	*r = MessageResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *UserResponse) fail(msg string, code *int, kind types.Kind) {
	*r = UserResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *PipelineResponse) fail(msg string, code *int, kind types.Kind) {
	*r = PipelineResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *FieldValueResponse) fail(msg string, code *int, kind types.Kind) {
	*r = FieldValueResponse{Error: msg, StatusCode: code, kind: kind}
}

func (r *AutomationResponse) fail(msg string, code *int, kind types.Kind) {
	*r = AutomationResponse{Error: msg, StatusCode: code, kind: kind}
}

// Failure reports the error message and upstream status code of a failed call.
func (r ContactResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r CampaignResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r ListResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r DealResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r AccountResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r TagResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r MessageResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r UserResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r PipelineResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r FieldValueResponse) Failure() (string, *int) { return r.Error, r.StatusCode }
func (r AutomationResponse) Failure() (string, *int) { return r.Error, r.StatusCode }

// ErrorKind classifies a failed call; it is empty on success.
func (r ContactResponse) ErrorKind() types.Kind { return r.kind }
func (r CampaignResponse) ErrorKind() types.Kind { return r.kind }
func (r ListResponse) ErrorKind() types.Kind { return r.kind }
func (r DealResponse) ErrorKind() types.Kind { return r.kind }
func (r AccountResponse) ErrorKind() types.Kind { return r.kind }
func (r TagResponse) ErrorKind() types.Kind { return r.kind }
func (r MessageResponse) ErrorKind() types.Kind { return r.kind }
func (r UserResponse) ErrorKind() types.Kind { return r.kind }
func (r PipelineResponse) ErrorKind() types.Kind { return r.kind }
func (r FieldValueResponse) ErrorKind() types.Kind { return r.kind }
func (r AutomationResponse) ErrorKind() types.Kind { return r.kind }
