package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"draftline/internal/api"
	"draftline/internal/config"
	"draftline/internal/db"
	"draftline/internal/domain"
	"draftline/internal/history"
	"draftline/internal/migrate"
	"draftline/internal/outline"
	"draftline/internal/session"
	"draftline/internal/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draftline CLI",
	Long: `Draftline drives an AI-assisted document-drafting service from the terminal.
- Projects are Word documents or slide decks built from ordered sections.
- Create a project with an outline (hand-written, from a YAML file, or AI-suggested),
  generate content for every section, then refine sections one at a time with
  natural-language prompts.
- Like/dislike sections, attach comments, and export the finished document
  as .docx or .pptx.
Credentials persist in the workspace; select the active project with 'draft project use'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		_ = godotenv.Load(filepath.Join(workspace, ".env"))
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DRAFTLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("project", "", "project id (overrides workspace default)")
	rootCmd.PersistentFlags().String("base-url", "", "service base URL (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("base-url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func registerCommands() {
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(outlineCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(sectionCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(logCmd())
}

// --- auth ---

func authCmd() *cobra.Command {
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Manage the session",
		Long:  "Sign in, register, or inspect the stored credential. The token lives in the workspace and survives restarts until you log out.",
	}
	auth.AddCommand(authLoginCmd())
	auth.AddCommand(authRegisterCmd())
	auth.AddCommand(authLogoutCmd())
	auth.AddCommand(authStatusCmd())
	return auth
}

func authLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, store session.Store, client *api.Client) error {
				token, err := client.Login(ctx, email, password)
				if err != nil {
					return err
				}
				if err := store.Login(ctx, token, email); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"email": email, "authenticated": true})
				}
				fmt.Printf("Signed in as %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func authRegisterCmd() *cobra.Command {
	var email, fullName, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, store session.Store, client *api.Client) error {
				if err := client.Register(ctx, email, fullName, password); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"email": email, "registered": true})
				}
				fmt.Printf("Registered %s; sign in with 'draft auth login'\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("full-name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func authLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, store session.Store, client *api.Client) error {
				if err := store.Logout(ctx); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"authenticated": false})
				}
				fmt.Println("Signed out")
				return nil
			})
		},
	}
	return cmd
}

func authStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, store session.Store, client *api.Client) error {
				st, err := store.Current(ctx)
				if err != nil {
					return err
				}
				out := map[string]any{"authenticated": st.Authenticated()}
				if st.Authenticated() {
					out["email"] = st.Email
					if exp, ok := tokenExpiry(st.Token); ok {
						out["token_expires_at"] = exp.UTC().Format(time.RFC3339)
						out["token_expired"] = time.Now().After(exp)
					}
				}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				if !st.Authenticated() {
					fmt.Println("Not signed in")
					return nil
				}
				fmt.Printf("Signed in as %s\n", st.Email)
				if exp, ok := tokenExpiry(st.Token); ok {
					if time.Now().After(exp) {
						fmt.Printf("Token expired at %s; log in again\n", exp.Local().Format(time.RFC3339))
					} else {
						fmt.Printf("Token valid until %s\n", exp.Local().Format(time.RFC3339))
					}
				}
				return nil
			})
		},
	}
	return cmd
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client has no key material; the claim is display-only.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// --- projects ---

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectCreateCmd())
	prj.AddCommand(projectShowCmd())
	prj.AddCommand(projectUseCmd())
	return prj
}

func projectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client) error {
				items, err := client.ListProjects(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Topic", "Type", "Status", "Updated"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Title, p.Topic, p.DocType, p.Status, p.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func projectCreateCmd() *cobra.Command {
	var title, topic, docType, outlineFile string
	var sections []string
	var suggest bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project with its initial outline",
		Long:  "Creates a project and its ordered sections in one call. The outline comes from repeated --section flags, an --outline YAML file, or --suggest (AI-proposed titles for the topic); without any of those a default three-section outline is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if docType == "" {
				docType = domain.DocTypeWord
			}
			if !domain.ValidDocType(docType) {
				return fmt.Errorf("--type must be %q or %q", domain.DocTypeWord, domain.DocTypeSlides)
			}
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client) error {
				o := outline.Default()
				switch {
				case outlineFile != "":
					loaded, err := outline.FromFile(outlineFile)
					if err != nil {
						return err
					}
					o = loaded
				case len(sections) > 0:
					o = outline.FromTitles(sections)
				}
				if suggest {
					suggested, err := outline.Suggest(ctx, client, topic, docType, o.Len())
					if err != nil {
						return err
					}
					o = suggested
				}
				if err := o.Validate(); err != nil {
					return err
				}
				detail, err := client.CreateProject(ctx, title, topic, docType, o.Items)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(detail)
				}
				fmt.Printf("Created project %d (%s)\n", detail.ID, detail.Title)
				renderDetail(detail)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "project title")
	cmd.Flags().StringVar(&topic, "topic", "", "main topic")
	cmd.Flags().StringVar(&docType, "type", "", "doc type: docx or pptx (default docx)")
	cmd.Flags().StringArrayVar(&sections, "section", []string{}, "section title (repeatable, in order)")
	cmd.Flags().StringVar(&outlineFile, "outline", "", "path to outline YAML")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "ask the service to suggest the outline")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project with its sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override string
			if len(args) == 1 {
				override = args[0]
			}
			return withController(cmd.Context(), override, func(ctx context.Context, ctl *workspace.Controller) error {
				detail, ok := ctl.Snapshot()
				if !ok {
					return workspace.ErrNoProject
				}
				if viper.GetBool("json") {
					return printJSON(detail)
				}
				renderDetail(detail)
				return nil
			})
		},
	}
	return cmd
}

func projectUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <id>",
		Short: "Set the current project for this workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := strings.TrimSpace(args[0])
			if _, err := strconv.ParseInt(projectID, 10, 64); err != nil {
				return fmt.Errorf("project id must be numeric: %q", projectID)
			}
			ws := viper.GetString("workspace")
			if err := setEnvValue(filepath.Join(ws, ".env"), "DRAFTLINE_PROJECT", projectID); err != nil {
				return err
			}
			fmt.Printf("Set DRAFTLINE_PROJECT=%s in %s/.env\n", projectID, ws)
			return nil
		},
	}
	return cmd
}

// --- outline ---

func outlineCmd() *cobra.Command {
	o := &cobra.Command{Use: "outline", Short: "Outline helpers"}
	o.AddCommand(outlineSuggestCmd())
	return o
}

func outlineSuggestCmd() *cobra.Command {
	var topic, docType string
	var count int
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the service to propose section titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if docType == "" {
				docType = domain.DocTypeWord
			}
			if !domain.ValidDocType(docType) {
				return fmt.Errorf("--type must be %q or %q", domain.DocTypeWord, domain.DocTypeSlides)
			}
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client) error {
				o, err := outline.Suggest(ctx, client, topic, docType, count)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(o)
				}
				for _, item := range o.Items {
					fmt.Printf("%d. %s\n", item.Position, item.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "document topic")
	cmd.Flags().StringVar(&docType, "type", "", "doc type: docx or pptx (default docx)")
	cmd.Flags().IntVar(&count, "count", 5, "number of sections")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

// --- workspace operations ---

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				detail, ok := ctl.Snapshot()
				if !ok {
					return workspace.ErrNoProject
				}
				if viper.GetBool("json") {
					return printJSON(detail)
				}
				renderDetail(detail)
				return nil
			})
		},
	}
	return cmd
}

func generateCmd() *cobra.Command {
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content for every section",
		Long:  "Asks the service to populate section content for the current project. Plain generate fills only empty sections; --regenerate recomputes all of them. The distinction is service policy; the client just forwards the flag.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				detail, err := ctl.Generate(ctx, regenerate)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(detail)
				}
				fmt.Printf("Project %d is %s\n", detail.ID, detail.Status)
				renderDetail(detail)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "recompute all sections, not just empty ones")
	return cmd
}

func sectionCmd() *cobra.Command {
	sec := &cobra.Command{
		Use:   "section",
		Short: "Work on one section",
		Long:  "Section operations act on a single section of the current project and merge the service's response back by section id. One section operation at a time.",
	}
	sec.AddCommand(sectionRefineCmd())
	sec.AddCommand(sectionFeedbackCmd())
	sec.AddCommand(sectionCommentCmd())
	return sec
}

func sectionRefineCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "refine <section-id>",
		Short: "Rewrite a section with a natural-language prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				updated, err := ctl.RefineSection(ctx, sectionID, prompt)
				if err != nil {
					return err
				}
				return printSection(updated)
			})
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "refinement instruction")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func sectionFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <section-id> <like|dislike>",
		Short: "Record feedback on a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			value := args[1]
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				updated, err := ctl.SetFeedback(ctx, sectionID, value)
				if err != nil {
					return err
				}
				return printSection(updated)
			})
		},
	}
	return cmd
}

func sectionCommentCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "comment <section-id>",
		Short: "Attach a comment to a section",
		Long:  "Attaches a comment to a section. The service keeps only the most recent comment; a new one replaces what is shown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				updated, err := ctl.AddComment(ctx, sectionID, text)
				if err != nil {
					return err
				}
				return printSection(updated)
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "comment text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current project as a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd.Context(), "", func(ctx context.Context, ctl *workspace.Controller) error {
				if format == "" {
					if detail, ok := ctl.Snapshot(); ok {
						format = detail.DocType
					}
				}
				data, filename, err := ctl.Export(ctx, format)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = filename
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"path": path, "bytes": len(data)})
				}
				fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "docx or pptx (default: the project's own type)")
	cmd.Flags().StringVar(&out, "out", "", "output path (default: suggested filename)")
	return cmd
}

func logCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent workspace activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			entries, err := history.Writer{DB: conn}.Recent(cmd.Context(), n)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(entries)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Time", "Op", "Project", "Section", "Outcome", "Detail"})
			for _, e := range entries {
				tw.AppendRow(table.Row{e.TS, e.Op, e.ProjectID, e.SectionID, e.Outcome, e.Detail})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of entries")
	return cmd
}

// --- helpers ---

func openDB() (*sql.DB, error) {
	ws := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: ws})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func baseURL() (string, error) {
	if u := viper.GetString("base-url"); u != "" {
		return u, nil
	}
	cfg, err := config.Load(viper.GetString("workspace"))
	if err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return cfg.Service.BaseURL, nil
}

func withSession(ctx context.Context, fn func(context.Context, session.Store, *api.Client) error) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()
	store := session.Store{DB: conn}
	st, err := store.Current(ctx)
	if err != nil {
		return err
	}
	u, err := baseURL()
	if err != nil {
		return err
	}
	client := api.New(u)
	client.Token = st.Token
	return fn(ctx, store, client)
}

func withClient(ctx context.Context, fn func(context.Context, *api.Client) error) error {
	return withSession(ctx, func(ctx context.Context, _ session.Store, client *api.Client) error {
		return fn(ctx, client)
	})
}

// withController builds a controller for the active project, loads its
// snapshot, and hands it to fn. The project id comes from the argument, the
// --project flag, or DRAFTLINE_PROJECT in the workspace .env.
func withController(ctx context.Context, override string, fn func(context.Context, *workspace.Controller) error) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()
	store := session.Store{DB: conn}
	st, err := store.Current(ctx)
	if err != nil {
		return err
	}
	u, err := baseURL()
	if err != nil {
		return err
	}
	client := api.New(u)
	client.Token = st.Token

	raw := override
	if raw == "" {
		raw = viper.GetString("project")
	}
	if raw == "" {
		return fmt.Errorf("project not specified; use --project or 'draft project use <id>'")
	}
	projectID, err := parseID(raw)
	if err != nil {
		return err
	}
	ctl := workspace.New(client)
	ctl.History = &history.Writer{DB: conn}
	if err := ctl.Load(ctx, projectID); err != nil {
		return fmt.Errorf("load project %d: %w", projectID, err)
	}
	return fn(ctx, ctl)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func renderDetail(d domain.ProjectDetail) {
	fmt.Printf("%s — %s [%s, %s]\n", d.Title, d.Topic, d.DocType, d.Status)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "ID", "Title", "Feedback", "Comment", "Content"})
	for _, s := range d.Sections {
		feedback := ""
		if s.Feedback != nil {
			feedback = *s.Feedback
		}
		comment := ""
		if s.LastComment != nil {
			comment = truncate(*s.LastComment, 30)
		}
		tw.AppendRow(table.Row{s.Position, s.ID, s.Title, feedback, comment, truncate(s.Content, 60)})
	}
	tw.Render()
}

func printSection(s domain.Section) error {
	if viper.GetBool("json") {
		return printJSON(s)
	}
	fmt.Printf("%d. %s\n", s.Position, s.Title)
	if s.Feedback != nil {
		fmt.Printf("Feedback: %s\n", *s.Feedback)
	}
	if s.LastComment != nil {
		fmt.Printf("Comment: %s\n", *s.LastComment)
	}
	if s.Content != "" {
		fmt.Println()
		fmt.Println(s.Content)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func setEnvValue(path, key, value string) error {
	var lines []string
	seen := false
	f, err := os.Open(path)
	if err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, key+"=") {
				lines = append(lines, fmt.Sprintf("%s=%s", key, value))
				seen = true
			} else {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return err
		}
		f.Close()
	} else if !os.IsNotExist(err) {
		return err
	}
	if !seen {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}
	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
