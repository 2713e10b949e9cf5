package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	membershipservice "clearwater/contexts/identity-access/membership-service"
	activityservice "clearwater/contexts/moderation-safety/activity-service"
	activityhttp "clearwater/contexts/moderation-safety/activity-service/transport/http"
	moderationlogservice "clearwater/contexts/moderation-safety/moderation-log-service"
	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	moderationhttp "clearwater/contexts/moderation-safety/moderation-log-service/transport/http"
	"clearwater/internal/shared/events"
)

// inlinePublisher feeds the activity consumer synchronously so tests can
// assert the feed without a broker or goroutines.
type inlinePublisher struct {
	consumer interface {
		Handle(ctx context.Context, envelope events.Envelope) error
	}
}

func (p inlinePublisher) Publish(ctx context.Context, _ string, event events.Envelope) error {
	return p.consumer.Handle(ctx, event)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	membership := membershipservice.NewInMemoryModule(logger)
	membership.Directory.GrantRole("staff-1", "role-staff")
	membership.Directory.GrantRole("hr-1", "role-staff")
	membership.Directory.GrantRole("hr-1", "role-hr")
	membership.Directory.GrantRole("dispatch-1", "role-dispatch")

	activity := activityservice.NewInMemoryModule(logger)
	moderation := moderationlogservice.NewInMemoryModule(
		inlinePublisher{consumer: activity.Consumer},
		"clearwater.staff-activity",
		logger,
	)

	return New(membership, moderation, activity, logger, ":0")
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

func doRequest(t *testing.T, s *Server, method, path, principalID, principalName string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if principalID != "" {
		req.Header.Set("X-Principal-Id", principalID)
		req.Header.Set("X-Principal-Name", principalName)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func createLog(t *testing.T, s *Server, principalID, principalName, targetName, actionKind, reason string) moderationhttp.LogResponse {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/moderation/v1/logs", principalID, principalName, moderationhttp.CreateLogRequest{
		TargetName: targetName,
		ActionKind: actionKind,
		Reason:     reason,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create log: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp moderationhttp.LogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func listLogs(t *testing.T, s *Server, principalID string) []moderationhttp.LogEntryBody {
	t.Helper()
	rec := doRequest(t, s, http.MethodGet, "/api/moderation/v1/logs", principalID, principalID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list logs: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp moderationhttp.LogListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	return resp.Data.Items
}

func TestAnonymousRequestsGetLoginRedirect(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/moderation/v1/logs"},
		{http.MethodPost, "/api/moderation/v1/logs"},
		{http.MethodPost, "/api/moderation/v1/logs/1/complete"},
		{http.MethodDelete, "/api/moderation/v1/logs/1"},
		{http.MethodGet, "/api/activity/v1/entries"},
		{http.MethodGet, "/api/membership/v1/verdict"},
		{http.MethodGet, "/api/dispatch/v1/access"},
	}
	for _, route := range routes {
		rec := doRequest(t, s, route.method, route.path, "", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", route.method, route.path, rec.Code)
		}
		var body struct {
			Redirect string `json:"redirect"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s %s: decode: %v", route.method, route.path, err)
		}
		if body.Redirect != "/auth/login" {
			t.Fatalf("%s %s: redirect = %q, want /auth/login", route.method, route.path, body.Redirect)
		}
	}
}

func TestTierDenialsAreTerminal(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name      string
		method    string
		path      string
		principal string
	}{
		{"dispatch user cannot list logs", http.MethodGet, "/api/moderation/v1/logs", "dispatch-1"},
		{"dispatch user cannot create logs", http.MethodPost, "/api/moderation/v1/logs", "dispatch-1"},
		{"staff cannot delete logs", http.MethodDelete, "/api/moderation/v1/logs/1", "staff-1"},
		{"staff cannot read activity", http.MethodGet, "/api/activity/v1/entries", "staff-1"},
		{"staff cannot use dispatch surface", http.MethodGet, "/api/dispatch/v1/access", "staff-1"},
		{"unknown principal is denied", http.MethodGet, "/api/moderation/v1/logs", "stranger-9"},
	}
	for _, tc := range cases {
		rec := doRequest(t, s, tc.method, tc.path, tc.principal, tc.principal, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: status = %d, want 403", tc.name, rec.Code)
		}
		var body struct {
			Redirect string `json:"redirect"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if body.Redirect != "" {
			t.Fatalf("%s: denial carried redirect %q, want none", tc.name, body.Redirect)
		}
	}
}

func TestModerationFlowEndToEnd(t *testing.T) {
	s := newTestServer(t)

	createLog(t, s, "staff-1", "Rook", "Alice", entities.ActionWarning, "r1")
	createLog(t, s, "staff-1", "Rook", "alice", entities.ActionNote, "r2")
	third := createLog(t, s, "staff-1", "Rook", "ALICE", entities.ActionWarning, "r3")
	if third.Data.PriorOffenseCount != 0 {
		t.Fatalf("staff entry prior offense count = %d, want 0", third.Data.PriorOffenseCount)
	}

	items := listLogs(t, s, "staff-1")
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	bolo := items[0]
	if bolo.ActionKind != entities.ActionActiveBanBolo {
		t.Fatalf("items[0].ActionKind = %q, want %q", bolo.ActionKind, entities.ActionActiveBanBolo)
	}
	if !bolo.Pinned {
		t.Fatalf("bolo not pinned")
	}
	if bolo.AuthorID != nil {
		t.Fatalf("bolo author id = %v, want null", *bolo.AuthorID)
	}
	if bolo.AuthorName == nil || *bolo.AuthorName != entities.AutomationAuthorName {
		t.Fatalf("bolo author name = %v, want %q", bolo.AuthorName, entities.AutomationAuthorName)
	}
	if bolo.PriorOffenseCount != 3 {
		t.Fatalf("bolo prior offense count = %d, want 3", bolo.PriorOffenseCount)
	}
	if bolo.Reason != "Reached 3 previous punishments" {
		t.Fatalf("bolo reason = %q", bolo.Reason)
	}
	for i, want := range []string{"r3", "r2", "r1"} {
		if items[i+1].Reason != want {
			t.Fatalf("items[%d].Reason = %q, want %q", i+1, items[i+1].Reason, want)
		}
	}

	rec := doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/moderation/v1/logs/%d/complete", bolo.ID), "staff-1", "Rook", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var completed moderationhttp.LogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decode complete response: %v", err)
	}
	if completed.Data.ActionKind != entities.ActionBan {
		t.Fatalf("completed action = %q, want %q", completed.Data.ActionKind, entities.ActionBan)
	}
	if !completed.Data.Completed || completed.Data.Pinned {
		t.Fatalf("completed = %v pinned = %v, want true/false", completed.Data.Completed, completed.Data.Pinned)
	}
	if completed.Data.CompletedBy == nil || *completed.Data.CompletedBy != "Rook" {
		t.Fatalf("completed by = %v, want Rook", completed.Data.CompletedBy)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/activity/v1/entries", "hr-1", "Pax", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activity: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var feed activityhttp.ActivityListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode activity response: %v", err)
	}
	if len(feed.Data.Items) != 4 {
		t.Fatalf("activity entries = %d, want 4", len(feed.Data.Items))
	}
	newest := feed.Data.Items[0]
	wantAction := fmt.Sprintf("Completed ban bolo #%d for ALICE", bolo.ID)
	if newest.Action != wantAction {
		t.Fatalf("newest activity = %q, want %q", newest.Action, wantAction)
	}
	if newest.ActorName != "Rook" || newest.ActorID != "staff-1" {
		t.Fatalf("newest actor = %s/%s, want staff-1/Rook", newest.ActorID, newest.ActorName)
	}
}

func TestCompleteRejectsNonBoloEntries(t *testing.T) {
	s := newTestServer(t)

	created := createLog(t, s, "staff-1", "Rook", "Borin", entities.ActionNote, "loitering")
	rec := doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/moderation/v1/logs/%d/complete", created.Data.ID), "staff-1", "Rook", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDeleteLogAsHumanResources(t *testing.T) {
	s := newTestServer(t)

	created := createLog(t, s, "staff-1", "Rook", "Borin", entities.ActionNote, "loitering")

	rec := doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/moderation/v1/logs/%d", created.Data.ID), "hr-1", "Pax", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp moderationhttp.DeleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	if resp.Data.ID != created.Data.ID {
		t.Fatalf("deleted id = %d, want %d", resp.Data.ID, created.Data.ID)
	}

	rec = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/moderation/v1/logs/%d", created.Data.ID), "hr-1", "Pax", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestMalformedInputsRejected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/moderation/v1/logs", bytes.NewBufferString("{not json"))
	req.Header.Set("X-Principal-Id", "staff-1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/moderation/v1/logs?limit=abc", "staff-1", "Rook", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/moderation/v1/logs/zero/complete", "staff-1", "Rook", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad log id: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/moderation/v1/logs", "staff-1", "Rook", moderationhttp.CreateLogRequest{
		TargetName: "Alice",
		ActionKind: "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing action kind: status = %d, want 400", rec.Code)
	}
}

func TestVerdictReflectsDirectoryRoles(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/membership/v1/verdict", "hr-1", "Pax", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verdict: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			PrincipalID       string `json:"principal_id"`
			IsStaff           bool   `json:"is_staff"`
			HasDispatchAccess bool   `json:"has_dispatch_access"`
			IsHumanResources  bool   `json:"is_human_resources"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if resp.Data.PrincipalID != "hr-1" {
		t.Fatalf("principal id = %q, want hr-1", resp.Data.PrincipalID)
	}
	if !resp.Data.IsStaff || !resp.Data.IsHumanResources || resp.Data.HasDispatchAccess {
		t.Fatalf("verdict = staff:%v dispatch:%v hr:%v, want true/false/true",
			resp.Data.IsStaff, resp.Data.HasDispatchAccess, resp.Data.IsHumanResources)
	}
}

func TestDispatchAccessConfirmed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/dispatch/v1/access", "dispatch-1", "Vale", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dispatch access: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			PrincipalID string `json:"principal_id"`
			Tier        string `json:"tier"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode dispatch access: %v", err)
	}
	if resp.Data.PrincipalID != "dispatch-1" || resp.Data.Tier != "dispatch" {
		t.Fatalf("data = %+v", resp.Data)
	}
}
