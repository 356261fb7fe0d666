// Command agroctl is a terminal client for the AgroSkills API: sign in,
// browse and apply to jobs, list companies and run a mock interview from
// pre-recorded answer segments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/client"
	"agroskills-platform/pkg/faceanalysis"
	"agroskills-platform/pkg/listing"
	"agroskills-platform/pkg/notify"
	"agroskills-platform/pkg/recorder"

	"github.com/joho/godotenv"
)

const usage = `usage: agroctl <command> [flags]

commands:
  login <email> <password>
  logout
  jobs [-q text] [-cidade c] [-modalidade m] [-page n]
  apply <jobID> [-m message]
  companies [-q text] [-active] [-page n]
  interview <candidaturaID> <segmentsDir> [-answer 5s] [-faces faces.json]
`

type app struct {
	api     *client.Client
	session *client.Session
	toasts  *notify.Center
	log     *slog.Logger
}

func main() {
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("AGRO_DEBUG") != "" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	api := client.New(client.ConfigFromEnv(), client.WithLogger(log))
	a := &app{api: api, session: client.NewSession(api), toasts: notify.New(notify.WithLogger(log)), log: log}
	a.printToasts()
	api.OnUnauthorized(func() {
		a.toasts.Warning("Sessão expirada", "Faça login novamente com agroctl login.")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "login":
		err = a.login(ctx, args)
	case "logout":
		a.session.Logout()
		a.toasts.Info("Até logo", "Credenciais removidas.")
	case "jobs":
		err = a.jobs(ctx, args)
	case "apply":
		err = a.apply(ctx, args)
	case "companies":
		err = a.companies(ctx, args)
	case "interview":
		err = a.interview(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		a.toasts.Error("Erro", err.Error())
		os.Exit(1)
	}
}

// printToasts echoes each new toast to stderr.
func (a *app) printToasts() {
	var (
		mu   sync.Mutex
		last int64
	)
	a.toasts.Subscribe(func(active []notify.Toast) {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range active {
			if t.ID <= last {
				continue
			}
			last = t.ID
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", t.Kind, t.Title, t.Message)
		}
	})
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("login needs <email> <password>")
	}
	user, err := a.session.Login(ctx, args[0], args[1]).Unwrap()
	if err != nil {
		return err
	}
	// persist across invocations
	if err := a.api.SetAuthToken(a.session.Token()); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	a.toasts.Success("Bem-vindo", fmt.Sprintf("%s (%s)", user.Name, user.Role))
	return nil
}

func (a *app) me(ctx context.Context) (*domain.User, error) {
	if a.api.Token() == "" {
		return nil, client.ErrNotAuthenticated
	}
	return a.session.Me(ctx).Unwrap()
}

func (a *app) jobs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	search := fs.String("q", "", "search text")
	cidade := fs.String("cidade", "", "city")
	modalidade := fs.String("modalidade", "", "presencial, remoto or hibrido")
	page := fs.Int("page", 1, "page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := client.JobQuery{Search: *search, Cidade: *cidade, Modalidade: *modalidade, Limit: 100}
	var jobs []domain.Job
	applied := map[int64]bool{}
	if user, err := a.me(ctx); err == nil && user.Role == domain.RoleCandidate {
		board, err := a.api.LoadJobBoard(ctx, user.ID, q).Unwrap()
		if err != nil {
			return err
		}
		jobs, applied = board.Jobs.Data, board.Applied
	} else {
		res, err := a.api.ListJobs(ctx, q).Unwrap()
		if err != nil {
			return err
		}
		jobs = res.Data
	}

	p := listing.Apply(jobs, listing.Query[domain.Job]{
		Match:    listing.JobMatcher(*search, *cidade, *modalidade),
		Compare:  listing.JobsNewestFirst,
		Page:     *page,
		PageSize: listing.DefaultPageSize,
	})
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVAGA\tEMPRESA\tCIDADE\tMODALIDADE\t")
	for _, j := range p.Items {
		mark := ""
		if applied[j.ID] {
			mark = "candidatado"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s/%s\t%s\t%s\n", j.ID, j.Nome, j.Empresa, j.Cidade, j.UF, j.Modalidade, mark)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("página %d de %d (%d vagas)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("apply needs <jobID>")
	}
	jobID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job id %q", args[0])
	}
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	msg := fs.String("m", "", "message to the company")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	_, err = a.api.Apply(ctx, jobID, *msg).Unwrap()
	switch {
	case errors.Is(err, client.ErrAlreadyApplied):
		a.toasts.Info("Candidatura", "Você já se candidatou a esta vaga.")
		return nil
	case err != nil:
		return err
	}
	a.toasts.Success("Candidatura enviada", fmt.Sprintf("Vaga %d", jobID))
	return nil
}

func (a *app) companies(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("companies", flag.ContinueOnError)
	search := fs.String("q", "", "name, corporate name or CNPJ")
	onlyActive := fs.Bool("active", false, "only active companies")
	page := fs.Int("page", 1, "page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	all, err := a.api.ListCompanies(ctx, client.CompanyQuery{}).Unwrap()
	if err != nil {
		return err
	}
	var active *bool
	if *onlyActive {
		active = onlyActive
	}
	p := listing.Apply(all, listing.Query[domain.Company]{
		Match:    listing.CompanyMatcher(*search, active),
		Compare:  listing.CompaniesByName,
		Page:     *page,
		PageSize: listing.DefaultPageSize,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPRESA\tCNPJ\tATIVA\t")
	for _, c := range p.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t\n", c.ID, c.Name, c.CNPJ, c.IsActive)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("página %d de %d (%d empresas)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func (a *app) interview(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("interview needs <candidaturaID> <segmentsDir>")
	}
	candidaturaID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid candidatura id %q", args[0])
	}
	dir := args[1]
	fs := flag.NewFlagSet("interview", flag.ContinueOnError)
	answerFor := fs.Duration("answer", 5*time.Second, "how long each answer records")
	facesPath := fs.String("faces", filepath.Join(dir, "faces.json"), "recorded face detections")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	user, err := a.me(ctx)
	if err != nil {
		return err
	}
	iv, err := a.api.CreateInterview(ctx, candidaturaID, user.Name).Unwrap()
	if err != nil {
		return err
	}
	if iv.Status != domain.InterviewInProgress {
		if iv, err = a.api.StartInterview(ctx, iv.ID).Unwrap(); err != nil {
			return err
		}
	}

	opts := []recorder.Option{
		recorder.WithLogger(a.log),
		recorder.WithObserver(func(from, to recorder.State, ev recorder.Event) {
			a.log.Debug("interview state", "from", from, "to", to, "event", ev)
		}),
	}
	if det, err := replayDetector(*facesPath); err == nil {
		sampler := faceanalysis.NewSampler(det, faceanalysis.WithLogger(a.log))
		if err := sampler.Start(ctx); err != nil {
			return err
		}
		defer sampler.Stop()
		opts = append(opts, recorder.WithFaceSource(sampler))
	} else if !errors.Is(err, os.ErrNotExist) {
		a.toasts.Warning("Análise facial", err.Error())
	}

	rec, err := recorder.New(a.api, &fileDevices{dir: dir, chunkSize: 256 << 10}, recorder.Config{
		InterviewID: iv.ID,
		Questions:   iv.Questions,
	}, opts...)
	if err != nil {
		return err
	}
	defer rec.Close()

	if err := rec.RequestCamera(ctx); err != nil {
		return err
	}
	for i, q := range iv.Questions {
		fmt.Printf("\nPergunta %d/%d: %s\n", i+1, len(iv.Questions), q.Text)
		if err := rec.StartRecording(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(*answerFor):
		}
		// the recording may already have stopped at the maximum duration
		if rec.State() == recorder.StateRecording {
			if _, err := rec.StopRecording(ctx); err != nil {
				a.toasts.Warning("Envio falhou", err.Error())
			} else {
				a.toasts.Success("Resposta enviada", fmt.Sprintf("Pergunta %d", q.Number))
			}
		}
		if i < len(iv.Questions)-1 {
			if err := rec.Next(true); err != nil {
				return err
			}
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(recorder.DefaultPollAttempts)*recorder.DefaultPollInterval)
	defer cancel()
	_ = rec.WaitAnalyses(waitCtx)

	report, err := rec.Finish(ctx, true)
	if err != nil {
		a.toasts.Warning("Relatório indisponível", err.Error())
		report = rec.PartialReport()
	}
	printReport(report)
	return nil
}

func printReport(r *recorder.FinalReport) {
	if r.Server != nil {
		s := r.Server.Report
		fmt.Printf("\nNota geral: %.1f  Recomendação: %s\n%s\n", s.OverallScore, s.Recommendation, s.Summary)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nPERGUNTA\tSTATUS\tNOTA\tDURAÇÃO\tAMOSTRAS\t")
	for _, q := range r.Questions {
		status := q.Status
		if q.Skipped {
			status = "pulada"
		}
		score := "-"
		if q.Score != nil {
			score = fmt.Sprintf("%.1f", *q.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t\n", q.QuestionNumber, status, score, q.Duration.Round(time.Second), q.FaceSamples)
	}
	_ = w.Flush()
	if r.Partial {
		fmt.Println("Algumas análises ainda estão em processamento; o relatório está incompleto.")
	}
	fmt.Printf("%d de %d perguntas respondidas\n", r.Answered(), len(r.Questions))
}
