package formdef

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
)

const sampleSpec = `
openapi: 3.0.3
info:
  title: Lead intake
  version: 1.0.0
paths:
  /leads:
    post:
      operationId: createLead
      summary: Lead intake
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email, first_name]
              properties:
                first_name:
                  type: string
                  minLength: 2
                  maxLength: 40
                  x-leadform:
                    nameField: true
                email:
                  type: string
                  format: email
                timeline:
                  type: string
                  enum: [ASAP, "Within 1 month", "Just researching"]
                  x-leadform:
                    step: 1
                budget:
                  type: integer
                  minimum: 100
                  maximum: 5000
                  multipleOf: 100
                priority_areas:
                  type: array
                  minItems: 1
                  maxItems: 3
                  items:
                    type: string
                    enum: ["Front door", "Driveway", "Not sure"]
                  x-leadform:
                    step: 1
                    uncertain: "Not sure"
      responses:
        "201":
          description: created
`

func TestBuildFromOpenAPI(t *testing.T) {
	def, err := BuildFromOpenAPI(context.Background(), []byte(sampleSpec), "createLead")
	if err != nil {
		t.Fatalf("BuildFromOpenAPI: %v", err)
	}
	if def.Title != "Lead intake" {
		t.Fatalf("title = %q", def.Title)
	}
	if len(def.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(def.Steps))
	}

	reg, err := def.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	first, ok := reg.Control("first_name")
	if !ok {
		t.Fatalf("first_name missing")
	}
	if first.Kind != model.ControlText || !first.NameField || !first.Constraints.Required {
		t.Fatalf("first_name = %+v", first)
	}
	if first.Constraints.MinLength != 2 || first.Constraints.MaxLength != 40 {
		t.Fatalf("first_name constraints = %+v", first.Constraints)
	}
	if first.Label != "First Name" {
		t.Fatalf("first_name label = %q", first.Label)
	}

	email, _ := reg.Control("email")
	if email == nil || email.Kind != model.ControlEmail || !email.Constraints.Required {
		t.Fatalf("email = %+v", email)
	}

	timeline, _ := reg.Control("timeline")
	if timeline == nil || timeline.Kind != model.ControlSelect || timeline.Step != 1 {
		t.Fatalf("timeline = %+v", timeline)
	}
	if diff := cmp.Diff([]string{"ASAP", "Within 1 month", "Just researching"}, timeline.Options); diff != "" {
		t.Fatalf("timeline options (-want +got):\n%s", diff)
	}

	budget, _ := reg.Control("budget")
	if budget == nil || budget.Kind != model.ControlNumber {
		t.Fatalf("budget = %+v", budget)
	}
	if budget.Constraints.Min == nil || *budget.Constraints.Min != 100 ||
		budget.Constraints.Max == nil || *budget.Constraints.Max != 5000 ||
		budget.Constraints.Step == nil || *budget.Constraints.Step != 100 {
		t.Fatalf("budget constraints = %+v", budget.Constraints)
	}

	group, ok := reg.Group("priority_areas")
	if !ok {
		t.Fatalf("priority_areas group missing")
	}
	if group.Min != 1 || group.Max != 3 || group.Step != 1 {
		t.Fatalf("group = %+v", group)
	}
	members := reg.Members("priority_areas")
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
	unsure := members[2]
	if unsure.Label != "Not sure" || group.Uncertain != unsure.ID {
		t.Fatalf("uncertain member = %+v, group.Uncertain = %q", unsure, group.Uncertain)
	}
}

func TestBuildFromOpenAPIErrors(t *testing.T) {
	if _, err := BuildFromOpenAPI(context.Background(), nil, "createLead"); err == nil {
		t.Fatalf("empty document accepted")
	}
	if _, err := BuildFromOpenAPI(context.Background(), []byte(sampleSpec), "missingOp"); err == nil {
		t.Fatalf("unknown operation accepted")
	}
}
