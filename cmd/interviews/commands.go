package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/blockedby/interview-list/internal/backend"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/notify"
	"github.com/blockedby/interview-list/internal/routes"
	"github.com/blockedby/interview-list/internal/store"
	"github.com/blockedby/interview-list/internal/validation"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register": cmdRegister,
	"login":    cmdLogin,
	"logout":   cmdLogout,
	"whoami":   cmdWhoami,
	"list":     cmdList,
	"add":      cmdAdd,
	"show":     cmdShow,
	"edit":     cmdEdit,
	"delete":   cmdDelete,
	"stats":    cmdStats,
	"watch":    cmdWatch,
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// invalid shows a form error as a toast.
func (a *app) invalid(err error) error {
	a.notifier.Notify(err.Error(), notify.Negative)
	return errReported
}

// failed turns an error already toasted by a store into errReported.
// ErrSignedOut is never toasted and is passed through.
func failed(err error) error {
	if err == nil || errors.Is(err, store.ErrSignedOut) {
		return err
	}
	return errReported
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register", a.out)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validation.ValidateEmailInput(*email); err != nil {
		return a.invalid(err)
	}
	if err := validation.ValidatePasswordInput(*password); err != nil {
		return a.invalid(err)
	}
	if err := validation.ValidatePasswordConfirmation(*password, *confirm); err != nil {
		return a.invalid(err)
	}

	if err := a.users.SignUp(ctx, *email, *password); err != nil {
		return failed(err)
	}
	a.notifier.Success("Account created, you are signed in")
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a.out)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validation.ValidateEmailInput(*email); err != nil {
		return a.invalid(err)
	}
	if *password == "" {
		return a.invalid(validation.ErrEnterPassword)
	}

	if err := a.users.SignIn(ctx, *email, *password); err != nil {
		return failed(err)
	}
	a.notifier.Success("Signed in")
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.users.SignOut(ctx); err != nil {
		return failed(err)
	}
	a.router.Navigate(routes.PathLogin)
	a.notifier.Notify("Signed out", notify.Info)
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	user := a.client.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.ID)
	fmt.Fprintf(a.out, "session: %s\n", a.sessions.Path())
	return nil
}

func cmdList(ctx context.Context, a *app, _ []string) error {
	if err := a.enter(routes.PathInterviews); err != nil {
		return err
	}
	if err := a.interviews.FetchInterviews(ctx); err != nil {
		return failed(err)
	}
	printList(a.out, a.interviews.Interviews())
	return nil
}

// interviewFlags binds the interview form to a flag set.
type interviewFlags struct {
	fs          *flag.FlagSet
	company     *string
	link        *string
	hr          *string
	telegram    *string
	whatsapp    *string
	phone       *string
	salaryFrom  *int
	salaryTo    *int
	status      *string
	stages      stageList
	clearStages *bool
}

func newInterviewFlags(name string, out io.Writer) *interviewFlags {
	f := &interviewFlags{fs: newFlagSet(name, out)}
	f.company = f.fs.String("company", "", "company name")
	f.link = f.fs.String("link", "", "vacancy link")
	f.hr = f.fs.String("hr", "", "HR name")
	f.telegram = f.fs.String("telegram", "", "HR telegram username")
	f.whatsapp = f.fs.String("whatsapp", "", "HR whatsapp username")
	f.phone = f.fs.String("phone", "", "HR phone number")
	f.salaryFrom = f.fs.Int("salary-from", 0, "salary range start")
	f.salaryTo = f.fs.Int("salary-to", 0, "salary range end")
	f.status = f.fs.String("status", "", "offer, reject, scheduled, pending or canceled")
	f.fs.Var(&f.stages, "stage", `stage as "name|date|comment", repeatable`)
	f.clearStages = f.fs.Bool("clear-stages", false, "remove all stages (edit only)")
	return f
}

// apply copies every flag the user set onto in.
func (f *interviewFlags) apply(in *models.InterviewInput) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "company":
			in.CompanyName = *f.company
		case "link":
			in.VacancyLink = *f.link
		case "hr":
			in.HRName = *f.hr
		case "telegram":
			in.TelegramUsername = f.telegram
		case "whatsapp":
			in.WhatsAppUsername = f.whatsapp
		case "phone":
			in.HRPhoneNumber = f.phone
		case "salary-from":
			in.SalaryFrom = f.salaryFrom
		case "salary-to":
			in.SalaryTo = f.salaryTo
		case "status":
			in.Status = models.InterviewStatus(*f.status)
		case "stage":
			in.Stages = appendStages(in.Stages, f.stages.items)
		case "clear-stages":
			if *f.clearStages {
				in.Stages = []models.Stage{}
			}
		}
	})
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	f := newInterviewFlags("add", a.out)
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if err := a.enter(routes.PathAdd); err != nil {
		return err
	}

	var in models.InterviewInput
	f.apply(&in)
	if err := validation.ValidateInterviewInput(in); err != nil {
		return a.invalid(err)
	}

	iv, err := a.interviews.AddInterview(ctx, in)
	if err != nil {
		return failed(err)
	}
	a.router.Navigate(routes.PathInterviews)
	a.notifier.Success("Interview added")
	fmt.Fprintln(a.out, iv.ID)
	return nil
}

func requireID(args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, errors.New("missing interview id")
	}
	return args[0], args[1:], nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	id, _, err := requireID(args)
	if err != nil {
		return err
	}
	if err := a.enter(routes.PathFor(id)); err != nil {
		return err
	}

	iv, err := a.interviews.GetInterview(ctx, id)
	if err != nil {
		return failed(err)
	}
	printInterview(a.out, iv)
	return nil
}

func cmdEdit(ctx context.Context, a *app, args []string) error {
	id, rest, err := requireID(args)
	if err != nil {
		return err
	}
	f := newInterviewFlags("edit", a.out)
	if err := f.fs.Parse(rest); err != nil {
		return err
	}
	if err := a.enter(routes.PathFor(id)); err != nil {
		return err
	}

	current, err := a.interviews.GetInterview(ctx, id)
	if err != nil {
		return failed(err)
	}

	in := inputFrom(current)
	f.apply(&in)
	if err := validation.ValidateInterviewInput(in); err != nil {
		return a.invalid(err)
	}

	if err := a.interviews.UpdateInterview(ctx, id, in); err != nil {
		return failed(err)
	}
	a.notifier.Success("Interview updated")
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	id, _, err := requireID(args)
	if err != nil {
		return err
	}
	if err := a.enter(routes.PathInterviews); err != nil {
		return err
	}

	if err := a.interviews.DeleteInterview(ctx, id); err != nil {
		return failed(err)
	}
	a.notifier.Success("Interview deleted")
	return nil
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("stats", a.out)
	fromServer := fs.Bool("server", false, "aggregate on the backend instead of locally")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.enter(routes.PathStatistics); err != nil {
		return err
	}

	var stats models.InterviewStats
	if *fromServer {
		if err := a.client.Stats(ctx, a.users.UserID(), &stats); err != nil {
			a.notifier.Error(err)
			return errReported
		}
	} else {
		if err := a.interviews.FetchInterviews(ctx); err != nil {
			return failed(err)
		}
		stats = a.interviews.Stats()
	}

	printStats(a.out, stats)
	return nil
}

func cmdWatch(ctx context.Context, a *app, _ []string) error {
	if err := a.enter(routes.PathInterviews); err != nil {
		return err
	}
	if err := a.interviews.FetchInterviews(ctx); err != nil {
		return failed(err)
	}
	printList(a.out, a.interviews.Interviews())

	err := a.client.Watch(ctx, func(evt backend.ChangeEvent) {
		a.log.Debug().Str("op", evt.Payload.Op).Str("interview_id", evt.Payload.InterviewID).Msg("change received")
		if err := a.interviews.FetchInterviews(ctx); err != nil {
			return
		}
		fmt.Fprintf(a.out, "\n-- %s %s --\n", evt.Payload.Op, evt.Payload.InterviewID)
		printList(a.out, a.interviews.Interviews())
	})
	if err != nil {
		a.notifier.Error(err)
		return errReported
	}
	return nil
}

// stageList collects repeated --stage flags.
type stageList struct {
	items []models.Stage
}

func (s *stageList) String() string {
	names := make([]string, 0, len(s.items))
	for _, st := range s.items {
		names = append(names, st.Name)
	}
	return strings.Join(names, ",")
}

func (s *stageList) Set(v string) error {
	st, err := parseStage(v)
	if err != nil {
		return err
	}
	s.items = append(s.items, st)
	return nil
}

// parseStage reads "name|date|comment"; date and comment are optional.
// The id is assigned when the stage is appended to an interview.
func parseStage(v string) (models.Stage, error) {
	parts := strings.SplitN(v, "|", 3)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return models.Stage{}, errors.New("stage name is empty")
	}
	st := models.Stage{Name: name}
	if len(parts) > 1 {
		st.Date = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		st.Comment = strings.TrimSpace(parts[2])
	}
	return st, nil
}

// appendStages adds stages after existing ones, numbering them past the
// highest numeric id already used so ids stay unique within the interview.
func appendStages(existing, added []models.Stage) []models.Stage {
	next := 0
	for _, st := range existing {
		if n, err := strconv.Atoi(st.ID); err == nil && n > next {
			next = n
		}
	}
	if next < len(existing) {
		next = len(existing)
	}

	out := make([]models.Stage, 0, len(existing)+len(added))
	out = append(out, existing...)
	for _, st := range added {
		next++
		st.ID = strconv.Itoa(next)
		out = append(out, st)
	}
	return out
}

func inputFrom(iv *models.Interview) models.InterviewInput {
	return models.InterviewInput{
		CompanyName:      iv.CompanyName,
		VacancyLink:      iv.VacancyLink,
		HRName:           iv.HRName,
		TelegramUsername: iv.TelegramUsername,
		WhatsAppUsername: iv.WhatsAppUsername,
		HRPhoneNumber:    iv.HRPhoneNumber,
		SalaryFrom:       iv.SalaryFrom,
		SalaryTo:         iv.SalaryTo,
		Stages:           iv.Stages,
		Status:           iv.Status,
	}
}

func formatSalary(from, to *int) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("%d-%d", *from, *to)
	case from != nil:
		return fmt.Sprintf("from %d", *from)
	case to != nil:
		return fmt.Sprintf("up to %d", *to)
	default:
		return "-"
	}
}

func printList(out io.Writer, list []models.Interview) {
	if len(list) == 0 {
		fmt.Fprintln(out, "no interviews yet")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tHR\tSTATUS\tSALARY\tCREATED")
	for _, iv := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			iv.ID, iv.CompanyName, iv.HRName, iv.Status,
			formatSalary(iv.SalaryFrom, iv.SalaryTo), iv.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func printInterview(out io.Writer, iv *models.Interview) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(w, "%s:\t%s\n", k, v)
		}
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	row("ID", iv.ID)
	row("Company", iv.CompanyName)
	row("Vacancy", iv.VacancyLink)
	row("HR", iv.HRName)
	row("Telegram", deref(iv.TelegramUsername))
	row("WhatsApp", deref(iv.WhatsAppUsername))
	row("Phone", deref(iv.HRPhoneNumber))
	row("Salary", formatSalary(iv.SalaryFrom, iv.SalaryTo))
	row("Status", string(iv.Status))
	row("Created", iv.CreatedAt.Local().Format("2006-01-02 15:04"))
	for _, st := range iv.Stages {
		line := st.Name
		if st.Date != "" {
			line += " (" + st.Date + ")"
		}
		if st.Comment != "" {
			line += ": " + st.Comment
		}
		row("Stage "+st.ID, line)
	}
	_ = w.Flush()
}

func printStats(out io.Writer, stats models.InterviewStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	statuses := make([]string, 0, len(stats.ByStatus))
	for st := range stats.ByStatus {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%d\n", st, stats.ByStatus[models.InterviewStatus(st)])
	}
	fmt.Fprintf(w, "total\t%d\n", stats.Total)
	_ = w.Flush()
}
