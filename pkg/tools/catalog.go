package tools

import (
	"context"

	ac "github.com/bturcanu/activecampaign-mcp/pkg/activecampaign"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ──────────────────────────────────────────────────────────────────────────────
// Inputs
// ──────────────────────────────────────────────────────────────────────────────

type noArgs struct{}

type contactListStatusArgs struct {
	ContactID string `json:"contact_id" jsonschema:"ID of the contact"`
	ListID    string `json:"list_id" jsonschema:"ID of the list"`
	Status    *int   `json:"status,omitempty" jsonschema:"1 to subscribe (default), 2 to unsubscribe"`
}

type fieldArgs struct {
	FieldID string `json:"field_id" jsonschema:"ID of the custom field"`
}

type fieldFilterArgs struct {
	FieldID string `json:"field_id,omitempty" jsonschema:"only return values of this custom field"`
}

type listArgs struct {
	ListID string `json:"list_id" jsonschema:"ID of the list"`
}

type campaignArgs struct {
	CampaignID string `json:"campaign_id" jsonschema:"ID of the campaign"`
}

type userArgs struct {
	UserID string `json:"user_id" jsonschema:"ID of the user"`
}

type pipelineArgs struct {
	PipelineID string `json:"pipeline_id" jsonschema:"ID of the pipeline (deal group)"`
}

type dealArgs struct {
	DealID string `json:"deal_id" jsonschema:"ID of the deal"`
}

type messageArgs struct {
	MessageID string `json:"message_id" jsonschema:"ID of the message"`
}

type updateMessageArgs struct {
	MessageID string  `json:"message_id" jsonschema:"ID of the message"`
	Name      *string `json:"name,omitempty" jsonschema:"new internal name"`
	Subject   *string `json:"subject,omitempty" jsonschema:"new subject line"`
	FromName  *string `json:"fromname,omitempty" jsonschema:"new sender name"`
	FromEmail *string `json:"fromemail,omitempty" jsonschema:"new sender email address"`
}

type accountNoteArgs struct {
	AccountID string `json:"account_id" jsonschema:"ID of the account"`
	NoteText  string `json:"note_text" jsonschema:"text of the note"`
}

type tagArgs struct {
	TagID string `json:"tag_id" jsonschema:"ID of the tag"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Catalogue
// ──────────────────────────────────────────────────────────────────────────────

func (r *Registry) register(b binding) {
	api := r.api

	// Contacts
	addTool(b, &mcp.Tool{
		Name:        "update_list_status_for_contact",
		Description: "Subscribe a contact to a list or unsubscribe a contact from a list.",
	}, func(ctx context.Context, in contactListStatusArgs) ac.ContactResponse {
		status := ac.DefaultListStatus
		if in.Status != nil {
			status = *in.Status
		}
		return api.UpdateListStatusForContact(ctx, in.ContactID, in.ListID, status)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List all contacts.",
	}, func(ctx context.Context, _ noArgs) ac.ContactResponse {
		return api.ListContacts(ctx)
	})

	// Custom fields
	addTool(b, &mcp.Tool{
		Name:        "get_custom_field_contact",
		Description: "Retrieve a custom field for contacts.",
	}, func(ctx context.Context, in fieldArgs) ac.FieldValueResponse {
		return api.GetCustomFieldContact(ctx, in.FieldID)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_custom_field_values",
		Description: "List all custom field values.",
	}, func(ctx context.Context, in fieldFilterArgs) ac.FieldValueResponse {
		return api.ListCustomFieldValues(ctx, in.FieldID)
	})

	// Lists
	addTool(b, &mcp.Tool{
		Name:        "get_list",
		Description: "Retrieve a specific list.",
	}, func(ctx context.Context, in listArgs) ac.ListResponse {
		return api.GetList(ctx, in.ListID)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_lists",
		Description: "Retrieve all lists.",
	}, func(ctx context.Context, _ noArgs) ac.ListResponse {
		return api.ListLists(ctx)
	})

	// Campaigns
	addTool(b, &mcp.Tool{
		Name:        "list_campaigns",
		Description: "Retrieve all existing campaigns.",
	}, func(ctx context.Context, _ noArgs) ac.CampaignResponse {
		return api.ListCampaigns(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_campaign",
		Description: "Retrieve a specific campaign.",
	}, func(ctx context.Context, in campaignArgs) ac.CampaignResponse {
		return api.GetCampaign(ctx, in.CampaignID)
	})

	// Automations and users
	addTool(b, &mcp.Tool{
		Name:        "list_automations",
		Description: "Retrieve all existing automations.",
	}, func(ctx context.Context, _ noArgs) ac.AutomationResponse {
		return api.ListAutomations(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_users",
		Description: "List all existing users.",
	}, func(ctx context.Context, _ noArgs) ac.UserResponse {
		return api.ListUsers(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_user",
		Description: "Retrieve a specific user.",
	}, func(ctx context.Context, in userArgs) ac.UserResponse {
		return api.GetUser(ctx, in.UserID)
	})

	// Pipelines and deals
	addTool(b, &mcp.Tool{
		Name:        "list_pipelines",
		Description: "Retrieve all existing pipelines.",
	}, func(ctx context.Context, _ noArgs) ac.PipelineResponse {
		return api.ListPipelines(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_pipeline",
		Description: "Retrieve an existing pipeline.",
	}, func(ctx context.Context, in pipelineArgs) ac.PipelineResponse {
		return api.GetPipeline(ctx, in.PipelineID)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_deal",
		Description: "Retrieve an existing deal.",
	}, func(ctx context.Context, in dealArgs) ac.DealResponse {
		return api.GetDeal(ctx, in.DealID)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_deals",
		Description: "Retrieve all existing deals.",
	}, func(ctx context.Context, _ noArgs) ac.DealResponse {
		return api.ListDeals(ctx)
	})

	// Messages
	addTool(b, &mcp.Tool{
		Name:        "list_messages",
		Description: "Retrieve all existing messages.",
	}, func(ctx context.Context, _ noArgs) ac.MessageResponse {
		return api.ListMessages(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_message",
		Description: "Retrieve a specific message.",
	}, func(ctx context.Context, in messageArgs) ac.MessageResponse {
		return api.GetMessage(ctx, in.MessageID)
	})
	addTool(b, &mcp.Tool{
		Name:        "update_message",
		Description: "Update an existing message. Only the fields supplied are changed.",
	}, func(ctx context.Context, in updateMessageArgs) ac.MessageResponse {
		return api.UpdateMessage(ctx, in.MessageID, ac.MessageUpdate{
			Name:      in.Name,
			Subject:   in.Subject,
			FromName:  in.FromName,
			FromEmail: in.FromEmail,
		})
	})

	// Accounts
	addTool(b, &mcp.Tool{
		Name:        "list_accounts",
		Description: "Retrieve all existing accounts.",
	}, func(ctx context.Context, _ noArgs) ac.AccountResponse {
		return api.ListAccounts(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "create_an_account_note",
		Description: "Create a new note for an account.",
	}, func(ctx context.Context, in accountNoteArgs) ac.AccountResponse {
		return api.CreateAccountNote(ctx, in.AccountID, in.NoteText)
	})

	// Tags
	addTool(b, &mcp.Tool{
		Name:        "get_tag",
		Description: "Retrieve a specific tag.",
	}, func(ctx context.Context, in tagArgs) ac.TagResponse {
		return api.GetTag(ctx, in.TagID)
	})
	addTool(b, &mcp.Tool{
		Name:        "list_tags",
		Description: "Retrieve all existing tags.",
	}, func(ctx context.Context, _ noArgs) ac.TagResponse {
		return api.ListTags(ctx)
	})

	// Diagnostics
	addTool(b, &mcp.Tool{
		Name:        "health_check",
		Description: "Check if the ActiveCampaign API is accessible via Nango.",
	}, func(ctx context.Context, _ noArgs) HealthStatus {
		return r.HealthCheck(ctx)
	})
	addTool(b, &mcp.Tool{
		Name:        "get_nango_connection_info",
		Description: "Get information about the current Nango connection.",
	}, func(ctx context.Context, _ noArgs) ConnectionInfo {
		return r.ConnectionInfo(ctx)
	})
}
