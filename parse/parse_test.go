package parse

import (
	"testing"

	"github.com/aegisdev/aegis/providers/ai"
)

type recipe struct {
	Name     string   `json:"name"`
	Servings int      `json:"servings"`
	Steps    []string `json:"steps"`
}

func TestAs_ValidJSON(t *testing.T) {
	got, err := As[recipe](`{"name":"toast","servings":1,"steps":["toast bread"]}`)
	if err != nil {
		t.Fatalf("As returned error: %v", err)
	}
	if got.Name != "toast" || got.Servings != 1 || len(got.Steps) != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_CodeFenced(t *testing.T) {
	content := "```json\n{\"name\":\"soup\",\"servings\":4,\"steps\":[]}\n```"

	got, err := As[recipe](content)
	if err != nil {
		t.Fatalf("As returned error: %v", err)
	}
	if got.Name != "soup" || got.Servings != 4 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_BareFence(t *testing.T) {
	content := "```\n{\"name\":\"stew\"}\n```"

	got, err := As[recipe](content)
	if err != nil {
		t.Fatalf("As returned error: %v", err)
	}
	if got.Name != "stew" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_RepairsMalformedJSON(t *testing.T) {
	// Trailing comma and single quotes, typical model output glitches.
	got, err := As[recipe](`{'name': 'pie', 'servings': 2,}`)
	if err != nil {
		t.Fatalf("As returned error: %v", err)
	}
	if got.Name != "pie" || got.Servings != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_UnrecoverableContent(t *testing.T) {
	_, err := As[recipe]("I'd be happy to help with that!")
	if err == nil {
		t.Fatal("expected error for non-JSON prose")
	}
}

func TestReply(t *testing.T) {
	message := ai.NewTextMessage(ai.RoleAssistant, `{"name":"salad","servings":2,"steps":["chop","mix"]}`)

	got, err := Reply[recipe](message)
	if err != nil {
		t.Fatalf("Reply returned error: %v", err)
	}
	if got.Name != "salad" || len(got.Steps) != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
}
