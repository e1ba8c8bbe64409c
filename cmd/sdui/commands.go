package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sdui/components/symbols"
	"github.com/goliatone/go-sdui/pkg/openapi"
	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/renderers/html"
	"github.com/goliatone/go-sdui/pkg/renderers/tui"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/server"
	"github.com/goliatone/go-sdui/pkg/symbolsearch"
	"github.com/goliatone/go-sdui/pkg/validation"
)

type cliEnv struct {
	cfg    config
	logger *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func (e *cliEnv) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("sdui "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// searcher prefers a remote search API and falls back to the embedded
// catalog.
func (e *cliEnv) searcher() symbolsearch.Searcher {
	if e.cfg.SearchURL != "" {
		return symbolsearch.NewClient(e.cfg.SearchURL, symbolsearch.WithLogger(e.logger))
	}
	return symbols.New(symbols.WithLogger(e.logger))
}

func (e *cliEnv) write(output string, data []byte) error {
	if output == "" || output == "-" {
		_, err := e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	e.logger.WithField("path", output).Info("output written")
	return nil
}

func runLint(_ context.Context, env *cliEnv, args []string) error {
	fs := env.flags("lint")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("lint: at least one schema path is required")
	}

	failed := false
	for _, path := range paths {
		form, err := schema.LoadFile(path)
		if err != nil {
			fmt.Fprintf(env.stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		issues := schema.Lint(form)
		for _, issue := range issues {
			fmt.Fprintf(env.stdout, "%s: %s: %s: %s\n", path, lintLocation(issue), issue.Severity, issue.Message)
		}
		if schema.HasErrors(issues) {
			failed = true
		}
		env.logger.WithFields(logrus.Fields{"path": path, "issues": len(issues)}).Debug("lint: checked")
	}
	if failed {
		return errChecksFailed
	}
	return nil
}

func lintLocation(issue schema.LintIssue) string {
	switch {
	case issue.Section != "" && issue.Field != "":
		return issue.Section + "." + issue.Field
	case issue.Field != "":
		return issue.Field
	case issue.Section != "":
		return issue.Section
	default:
		return "form"
	}
}

type validateOutput struct {
	Valid      bool                        `json:"valid"`
	Errors     map[string]validation.Issue `json:"errors"`
	Submission map[string]any              `json:"submission,omitempty"`
}

func runValidate(_ context.Context, env *cliEnv, args []string) error {
	fs := env.flags("validate")
	schemaPath := fs.String("schema", "", "schema file (JSON or YAML)")
	valuesPath := fs.String("values", "-", "values document (JSON or YAML, - for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return errors.New("validate: -schema is required")
	}

	form, err := schema.LoadFile(*schemaPath)
	if err != nil {
		return err
	}
	values, err := readValues(*valuesPath, os.Stdin)
	if err != nil {
		return err
	}

	validator := validation.New(validation.WithLogger(env.logger))
	result := validator.ValidateForm(form, values)
	out := validateOutput{Valid: result.Valid, Errors: result.Errors}
	if result.Valid {
		out.Submission = render.Submission(form, values)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("validate: encode result: %w", err)
	}
	if err := env.write("", append(data, '\n')); err != nil {
		return err
	}
	if !result.Valid {
		return errChecksFailed
	}
	return nil
}

func runRender(ctx context.Context, env *cliEnv, args []string) error {
	return renderWith(ctx, env, "render", "html", args)
}

func runPrompt(ctx context.Context, env *cliEnv, args []string) error {
	return renderWith(ctx, env, "prompt", "tui", args)
}

func renderWith(ctx context.Context, env *cliEnv, name, defaultRenderer string, args []string) error {
	fs := env.flags(name)
	schemaPath := fs.String("schema", "", "schema file (JSON or YAML)")
	valuesPath := fs.String("values", "", "seed values document (JSON or YAML)")
	rendererName := fs.String("renderer", defaultRenderer, "renderer (html or tui)")
	format := fs.String("format", string(tui.OutputFormatJSON), "tui output format (json, form or pretty)")
	action := fs.String("action", "", "html form action")
	validate := fs.Bool("validate", false, "show validation issues for the seed values")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return fmt.Errorf("%s: -schema is required", name)
	}

	form, err := schema.LoadFile(*schemaPath)
	if err != nil {
		return err
	}
	values := map[string]any{}
	if *valuesPath != "" {
		if values, err = readValues(*valuesPath, os.Stdin); err != nil {
			return err
		}
	}

	registry, err := env.renderers(tui.OutputFormat(*format))
	if err != nil {
		return err
	}
	renderer, err := registry.Get(*rendererName)
	if err != nil {
		return err
	}

	opts := render.RenderOptions{Values: values, Action: *action}
	if *validate {
		result := validation.New(validation.WithLogger(env.logger)).ValidateForm(form, values)
		opts.Result = &result
	}
	out, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return env.write(*output, out)
}

func (e *cliEnv) renderers(format tui.OutputFormat) (*render.Registry, error) {
	htmlRenderer, err := html.New(
		html.WithTemplatesDir(e.cfg.TemplatesDir),
		html.WithSearchPath(symbols.MountPath(e.cfg.SearchBase)),
	)
	if err != nil {
		return nil, err
	}
	tuiRenderer, err := tui.New(
		tui.WithOutputFormat(format),
		tui.WithSearcher(e.searcher()),
		tui.WithLogger(e.logger),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, tuiRenderer)
}

func runServe(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.flags("serve")
	dir := fs.String("schemas", env.cfg.SchemaDir, "directory of schema files")
	addr := fs.String("addr", env.cfg.Addr, "listen address")
	readOnly := fs.Bool("read-only", env.cfg.ReadOnly, "reject PUT /forms/{id}")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := schema.LoadFS(os.DirFS(*dir))
	if err != nil {
		return err
	}
	env.logger.WithFields(logrus.Fields{"dir": *dir, "forms": len(store.IDs())}).Info("schemas loaded")

	options := []server.Option{
		server.WithLogger(env.logger),
		server.WithSearchBase(env.cfg.SearchBase),
	}
	if env.cfg.TemplatesDir != "" {
		renderer, err := html.New(
			html.WithTemplatesDir(env.cfg.TemplatesDir),
			html.WithSearchPath(symbols.MountPath(env.cfg.SearchBase)),
		)
		if err != nil {
			return err
		}
		options = append(options, server.WithHTMLRenderer(renderer))
	}
	if *readOnly {
		options = append(options, server.WithReadOnly())
	}
	srv, err := server.New(store, options...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, *addr)
}

func runImport(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.flags("import")
	specPath := fs.String("openapi", "", "OpenAPI 3 document (JSON or YAML)")
	component := fs.String("component", "", "name under components.schemas")
	resolve := fs.Bool("resolve", true, "resolve and validate $ref targets")
	asYAML := fs.Bool("yaml", false, "write YAML instead of JSON")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *specPath == "" || *component == "" {
		return errors.New("import: -openapi and -component are required")
	}

	raw, err := os.ReadFile(*specPath)
	if err != nil {
		return fmt.Errorf("import: read %s: %w", *specPath, err)
	}
	importer := openapi.NewImporter(
		openapi.WithReferenceResolution(*resolve),
		openapi.WithLogger(env.logger),
	)
	form, err := importer.ImportComponent(ctx, raw, *component)
	if err != nil {
		return err
	}
	for _, issue := range schema.Lint(form) {
		env.logger.WithFields(logrus.Fields{"field": issue.Field, "severity": issue.Severity}).Warn("import: " + issue.Message)
	}

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return fmt.Errorf("import: encode form: %w", err)
	}
	if *asYAML {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("import: encode form: %w", err)
		}
		if data, err = yaml.Marshal(generic); err != nil {
			return fmt.Errorf("import: encode yaml: %w", err)
		}
	} else {
		data = append(data, '\n')
	}
	return env.write(*output, data)
}

// readValues loads a values document. "-" reads stdin. YAML is accepted for
// any extension other than .json.
func readValues(path string, stdin io.Reader) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("values: read %s: %w", path, err)
	}

	values := map[string]any{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return values, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &values)
	} else {
		err = yaml.Unmarshal(raw, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("values: decode %s: %w", path, err)
	}
	return values, nil
}
