package domain

import (
	"encoding/json"
	"testing"
)

func TestWriterJSON_FlattensUserAndHidesHash(t *testing.T) {
	w := Writer{
		User: User{
			BaseModel:    BaseModel{ID: 7},
			Name:         "Ada",
			Email:        "ada@example.com",
			Bio:          "Writes about routers.",
			PasswordHash: "$2a$10$examplehash",
		},
		PublishedCount: 3,
	}

	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal writer: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal writer: %v", err)
	}

	if _, ok := fields["password_hash"]; ok {
		t.Errorf("password hash leaked: %s", raw)
	}
	if _, ok := fields["PasswordHash"]; ok {
		t.Errorf("password hash leaked: %s", raw)
	}
	if fields["name"] != "Ada" || fields["id"] != float64(7) || fields["published_count"] != float64(3) {
		t.Errorf("writer fields = %v", fields)
	}
}

func TestUserJSON_IgnoresIncomingHash(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"name":"Ada","password_hash":"x","PasswordHash":"y"}`), &u); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if u.PasswordHash != "" {
		t.Errorf("PasswordHash = %q; want empty", u.PasswordHash)
	}
	if u.Name != "Ada" {
		t.Errorf("Name = %q", u.Name)
	}
}
