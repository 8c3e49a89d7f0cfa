package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/interview-list/internal/backend"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/session"
	"github.com/blockedby/interview-list/internal/store"
)

func TestParseStage(t *testing.T) {
	st, err := parseStage("HR screen|2024-05-01|went well")
	require.NoError(t, err)
	assert.Equal(t, models.Stage{Name: "HR screen", Date: "2024-05-01", Comment: "went well"}, st)

	st, err = parseStage("  Tech  ")
	require.NoError(t, err)
	assert.Equal(t, "Tech", st.Name)
	assert.Empty(t, st.Date)

	_, err = parseStage("|2024-05-01")
	assert.Error(t, err)
}

func TestInterviewFlags_ApplyOnlyVisited(t *testing.T) {
	tg := "old_tg"
	in := models.InterviewInput{
		CompanyName:      "Acme",
		VacancyLink:      "https://acme.example/jobs/1",
		HRName:           "Ann",
		TelegramUsername: &tg,
		Status:           models.InterviewStatusPending,
	}

	f := newInterviewFlags("edit", &bytes.Buffer{})
	require.NoError(t, f.fs.Parse([]string{"--status", "offer", "--salary-to", "5000", "--stage", "Final|friday"}))
	f.apply(&in)

	assert.Equal(t, "Acme", in.CompanyName)
	assert.Equal(t, models.InterviewStatusOffer, in.Status)
	require.NotNil(t, in.SalaryTo)
	assert.Equal(t, 5000, *in.SalaryTo)
	assert.Nil(t, in.SalaryFrom)
	require.NotNil(t, in.TelegramUsername)
	assert.Equal(t, "old_tg", *in.TelegramUsername)
	require.Len(t, in.Stages, 1)
	assert.Equal(t, "Final", in.Stages[0].Name)
	assert.Equal(t, "1", in.Stages[0].ID)
}

func TestInterviewFlags_AppendedStagesGetUniqueIDs(t *testing.T) {
	in := models.InterviewInput{Stages: []models.Stage{
		{ID: "1", Name: "HR"},
		{ID: "2", Name: "Tech"},
	}}

	f := newInterviewFlags("edit", &bytes.Buffer{})
	require.NoError(t, f.fs.Parse([]string{"--stage", "Final|friday", "--stage", "Offer call"}))
	f.apply(&in)

	require.Len(t, in.Stages, 4)
	ids := make(map[string]bool)
	for _, st := range in.Stages {
		assert.False(t, ids[st.ID], "duplicate stage id %s", st.ID)
		ids[st.ID] = true
	}
	assert.Equal(t, "3", in.Stages[2].ID)
	assert.Equal(t, "Final", in.Stages[2].Name)
	assert.Equal(t, "4", in.Stages[3].ID)
}

func TestAppendStages_SkipsPastHighestID(t *testing.T) {
	existing := []models.Stage{{ID: "7", Name: "Late"}, {ID: "x", Name: "Imported"}}

	out := appendStages(existing, []models.Stage{{Name: "Next"}})

	require.Len(t, out, 3)
	assert.Equal(t, "8", out[2].ID)
	assert.Equal(t, "7", existing[0].ID)
}

func TestInterviewFlags_ClearStages(t *testing.T) {
	in := models.InterviewInput{Stages: []models.Stage{{ID: "1", Name: "HR"}}}

	f := newInterviewFlags("edit", &bytes.Buffer{})
	require.NoError(t, f.fs.Parse([]string{"--clear-stages"}))
	f.apply(&in)

	assert.Empty(t, in.Stages)
}

func TestFormatSalary(t *testing.T) {
	from, to := 100, 200
	assert.Equal(t, "100-200", formatSalary(&from, &to))
	assert.Equal(t, "from 100", formatSalary(&from, nil))
	assert.Equal(t, "up to 200", formatSalary(nil, &to))
	assert.Equal(t, "-", formatSalary(nil, nil))
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil)
	assert.Equal(t, "no interviews yet\n", buf.String())

	buf.Reset()
	printList(&buf, []models.Interview{{
		ID: "a1", CompanyName: "Acme", HRName: "Ann", Status: models.InterviewStatusScheduled,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}})
	out := buf.String()
	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "scheduled")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, models.CountInterviews([]models.Interview{
		{Status: models.InterviewStatusOffer},
		{Status: models.InterviewStatusOffer},
		{Status: models.InterviewStatusReject},
	}))
	out := buf.String()
	assert.Regexp(t, `offer\s+2`, out)
	assert.Regexp(t, `reject\s+1`, out)
	assert.Regexp(t, `total\s+3`, out)
}

func TestFailed(t *testing.T) {
	assert.NoError(t, failed(nil))
	assert.ErrorIs(t, failed(store.ErrSignedOut), store.ErrSignedOut)
	assert.ErrorIs(t, failed(errors.New("boom")), errReported)
}

func TestRequireID(t *testing.T) {
	id, rest, err := requireID([]string{"abc", "--status", "offer"})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, []string{"--status", "offer"}, rest)

	_, _, err = requireID(nil)
	assert.Error(t, err)
	_, _, err = requireID([]string{"--status"})
	assert.Error(t, err)
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, run(context.Background(), nil, &out, &errOut))
	assert.Contains(t, out.String(), "usage: interviews")

	err := run(context.Background(), []string{"bogus"}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
	assert.Contains(t, errOut.String(), "commands:")
}

func TestWhoami_PrintsUserAndSessionFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.AuthUser{ID: "u1", Email: "ann@example.com"})
	}))
	defer srv.Close()

	sessions := session.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, sessions.Save(&models.Credential{UserID: "u1", Email: "ann@example.com", Token: "tok"}))

	client := backend.New(srv.URL, backend.WithSessionStore(sessions))
	require.NoError(t, client.Restore(context.Background()))

	var out bytes.Buffer
	a := &app{out: &out, client: client, sessions: sessions}
	require.NoError(t, cmdWhoami(context.Background(), a, nil))

	assert.Contains(t, out.String(), "ann@example.com (u1)")
	assert.Contains(t, out.String(), sessions.Path())
}

func TestWhoami_SignedOut(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out, client: backend.New("http://localhost:1")}
	require.NoError(t, cmdWhoami(context.Background(), a, nil))
	assert.Equal(t, "not signed in\n", out.String())
}
