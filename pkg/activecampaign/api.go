package activecampaign

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/tidwall/sjson"
)

const apiPrefix = "/api/3"

// DefaultListStatus subscribes a contact; 2 unsubscribes.
const DefaultListStatus = 1

// ──────────────────────────────────────────────────────────────────────────────
// Contacts
// ──────────────────────────────────────────────────────────────────────────────

// UpdateListStatusForContact subscribes or unsubscribes a contact.
func (c *Client) UpdateListStatusForContact(ctx context.Context, contactID, listID string, status int) ContactResponse {
	contactID, listID = strings.TrimSpace(contactID), strings.TrimSpace(listID)
	endpoint, err := itemPath("contacts", "contact_id", contactID)
	if err != nil {
		return Decode[ContactResponse](Result{}, err)
	}
	if listID == "" {
		return Decode[ContactResponse](Result{}, types.ErrValidation("list_id", "required"))
	}
	body := map[string]any{
		"contactList": map[string]any{
			"list":    listID,
			"contact": contactID,
			"status":  status,
		},
	}
	return Decode[ContactResponse](c.Request(ctx, http.MethodPost, endpoint+"/contactLists", body))
}

func (c *Client) ListContacts(ctx context.Context) ContactResponse {
	return Decode[ContactResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/contacts", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Custom fields
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) GetCustomFieldContact(ctx context.Context, fieldID string) FieldValueResponse {
	endpoint, err := itemPath("fields", "field_id", fieldID)
	if err != nil {
		return Decode[FieldValueResponse](Result{}, err)
	}
	return Decode[FieldValueResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

// ListCustomFieldValues lists field values, narrowed to one field when
// fieldID is not empty.
func (c *Client) ListCustomFieldValues(ctx context.Context, fieldID string) FieldValueResponse {
	endpoint := apiPrefix + "/fieldValues"
	if id := strings.TrimSpace(fieldID); id != "" {
		endpoint += "?" + url.Values{"filters[fieldid]": {id}}.Encode()
	}
	return Decode[FieldValueResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lists
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) GetList(ctx context.Context, listID string) ListResponse {
	endpoint, err := itemPath("lists", "list_id", listID)
	if err != nil {
		return Decode[ListResponse](Result{}, err)
	}
	return Decode[ListResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

func (c *Client) ListLists(ctx context.Context) ListResponse {
	return Decode[ListResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/lists", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Campaigns, automations, users
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) ListCampaigns(ctx context.Context) CampaignResponse {
	return Decode[CampaignResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/campaigns", nil))
}

func (c *Client) GetCampaign(ctx context.Context, campaignID string) CampaignResponse {
	endpoint, err := itemPath("campaigns", "campaign_id", campaignID)
	if err != nil {
		return Decode[CampaignResponse](Result{}, err)
	}
	return Decode[CampaignResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

func (c *Client) ListAutomations(ctx context.Context) AutomationResponse {
	return Decode[AutomationResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/automations", nil))
}

func (c *Client) ListUsers(ctx context.Context) UserResponse {
	return Decode[UserResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/users", nil))
}

func (c *Client) GetUser(ctx context.Context, userID string) UserResponse {
	endpoint, err := itemPath("users", "user_id", userID)
	if err != nil {
		return Decode[UserResponse](Result{}, err)
	}
	return Decode[UserResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pipelines and deals
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) ListPipelines(ctx context.Context) PipelineResponse {
	return Decode[PipelineResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/dealGroups", nil))
}

func (c *Client) GetPipeline(ctx context.Context, pipelineID string) PipelineResponse {
	endpoint, err := itemPath("dealGroups", "pipeline_id", pipelineID)
	if err != nil {
		return Decode[PipelineResponse](Result{}, err)
	}
	return Decode[PipelineResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

func (c *Client) GetDeal(ctx context.Context, dealID string) DealResponse {
	endpoint, err := itemPath("deals", "deal_id", dealID)
	if err != nil {
		return Decode[DealResponse](Result{}, err)
	}
	return Decode[DealResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

func (c *Client) ListDeals(ctx context.Context) DealResponse {
	return Decode[DealResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/deals", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Messages
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) ListMessages(ctx context.Context) MessageResponse {
	return Decode[MessageResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/messages", nil))
}

func (c *Client) GetMessage(ctx context.Context, messageID string) MessageResponse {
	endpoint, err := itemPath("messages", "message_id", messageID)
	if err != nil {
		return Decode[MessageResponse](Result{}, err)
	}
	return Decode[MessageResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

// MessageUpdate holds the optional fields of a message update. Nil fields are
// left out of the request so they keep their current remote value.
type MessageUpdate struct {
	Name      *string
	Subject   *string
	FromName  *string
	FromEmail *string
}

// Body renders the PUT payload, e.g. {"message":{"subject":"Hi"}}.
func (u MessageUpdate) Body() ([]byte, error) {
	body := []byte(`{"message":{}}`)
	fields := []struct {
		path  string
		value *string
	}{
		{"message.name", u.Name},
		{"message.subject", u.Subject},
		{"message.fromname", u.FromName},
		{"message.fromemail", u.FromEmail},
	}
	var err error
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if body, err = sjson.SetBytes(body, f.path, *f.value); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (c *Client) UpdateMessage(ctx context.Context, messageID string, update MessageUpdate) MessageResponse {
	endpoint, err := itemPath("messages", "message_id", messageID)
	if err != nil {
		return Decode[MessageResponse](Result{}, err)
	}
	body, err := update.Body()
	if err != nil {
		return Decode[MessageResponse](Result{}, types.ErrMapping("build message update", err))
	}
	return Decode[MessageResponse](c.Request(ctx, http.MethodPut, endpoint, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Accounts and tags
// ──────────────────────────────────────────────────────────────────────────────

func (c *Client) ListAccounts(ctx context.Context) AccountResponse {
	return Decode[AccountResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/accounts", nil))
}

// CreateAccountNote attaches a note to an account.
func (c *Client) CreateAccountNote(ctx context.Context, accountID, text string) AccountResponse {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return Decode[AccountResponse](Result{}, types.ErrValidation("account_id", "required"))
	}
	body := map[string]any{
		"note": map[string]any{
			"note":    text,
			"relid":   accountID,
			"reltype": "account",
		},
	}
	return Decode[AccountResponse](c.Request(ctx, http.MethodPost, apiPrefix+"/notes", body))
}

func (c *Client) GetTag(ctx context.Context, tagID string) TagResponse {
	endpoint, err := itemPath("tags", "tag_id", tagID)
	if err != nil {
		return Decode[TagResponse](Result{}, err)
	}
	return Decode[TagResponse](c.Request(ctx, http.MethodGet, endpoint, nil))
}

func (c *Client) ListTags(ctx context.Context) TagResponse {
	return Decode[TagResponse](c.Request(ctx, http.MethodGet, apiPrefix+"/tags", nil))
}

func itemPath(collection, field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", types.ErrValidation(field, "required")
	}
	return apiPrefix + "/" + collection + "/" + url.PathEscape(id), nil
}
