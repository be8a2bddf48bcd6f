package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Makepad-fr/laundry/internal/config"
	"github.com/Makepad-fr/laundry/internal/expiry"
	"github.com/Makepad-fr/laundry/internal/imagefile"
	"github.com/Makepad-fr/laundry/internal/logger"
	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/report"
	"github.com/Makepad-fr/laundry/internal/store/jsonstore"
	"github.com/Makepad-fr/laundry/internal/tracker"
	"github.com/Makepad-fr/laundry/internal/tui"
	"github.com/Makepad-fr/laundry/internal/ui"
	"github.com/Makepad-fr/laundry/internal/view"
)

// Options come from root flags; zero values defer to the config file.
type Options struct {
	ConfigPath string
	DataPath   string
	Theme      string
	NoColor    bool
	AssumeYes  bool // skip y/N prompts

	Stdin   io.Reader
	Now     func() time.Time
	Context context.Context
}

type app struct {
	cfg config.Config
	opt Options
	tr  *tracker.Tracker
	in  *bufio.Reader
	log *slog.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	ap, code := setup(opt)
	if code != 0 {
		return code
	}

	switch cmd {
	case "ls":
		return ap.doList(a)
	case "tui":
		return ap.doTUI(a)
	case "add":
		return ap.doAdd(a)
	case "toggle", "mv":
		return ap.doToggle(a)
	case "rm":
		return ap.doRemove(a)
	case "edit":
		return ap.doEdit(a)
	case "submit":
		return ap.doSubmit(a)
	case "history":
		return ap.doHistory(a)
	case "settings":
		return ap.doSettings(a)
	case "stats":
		return ap.doStats()
	case "expiry":
		return ap.doExpiry(a)
	case "export":
		return ap.doExport(a)
	case "import":
		return ap.doImport(a)
	case "report":
		return ap.doReport(a)
	case "photo":
		return ap.doPhoto(a)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr)
	PrintHelp()
	return 2
}

func setup(opt Options) (*app, int) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return nil, 1
	}
	if opt.DataPath != "" {
		cfg.Data.Path = opt.DataPath
	}
	if opt.Theme != "" {
		cfg.UI.Theme = opt.Theme
	}
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)
	if opt.NoColor {
		ui.SetColorForcing(false, true)
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Context == nil {
		opt.Context = context.Background()
	}

	log := logger.New(cfg.Log.Level, ui.Stderr)
	defaults, err := cfg.DefaultSettings()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return nil, 1
	}
	store, err := jsonstore.New(cfg.Data.Path, defaults, log)
	if err != nil {
		ui.Fail("store: " + err.Error())
		return nil, 1
	}
	tr, err := tracker.New(store, tracker.WithClock(opt.Now), tracker.WithLogger(log))
	if err != nil {
		ui.Fail("load: " + err.Error())
		return nil, 1
	}
	return &app{cfg: cfg, opt: opt, tr: tr, in: bufio.NewReader(opt.Stdin), log: log}, 0
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout, `laundry - track clothes and detergent budget

Usage:
  laundry [--config file] [--data file] [--theme classic|neon|mono] [--no-color] [-y] <subcommand> [args]

Subcommands:
  ls [all|laundry|cupboard]             List items with stats
  tui [all|laundry|cupboard]            Interactive list (space toggle, a add, e rename, d delete, f filter)
  add [--status s] [--image f] <name...> Add an item (status laundry|cupboard, default laundry)
  toggle <index>                        Move item between laundry and cupboard
  edit [--name n] [--image f] [--clear-image] <index>
                                        Rename an item or change its photo
  rm <index>                            Remove item at 1-based index
  submit [--date YYYY-MM-DD] <kg>       Log a laundry load and spend its weight
  history                               List submissions, newest first
  history rm <index>                    Delete a submission and give its weight back
  settings                              Show package settings
  settings set [--total kg] [--current kg] [--expires YYYY-MM-DD] [--min kg] [--max kg]
  stats                                 Summary only
  expiry [--watch]                      Time left before the package expires
  export [file|-]                       Write items and settings as JSON
  import <file>                         Replace items and settings from a backup
  report <file.xlsx>                    Write a spreadsheet of items and history
  photo <index> <file>                  Save an item's photo to a file

Examples:
  laundry add --status cupboard "Blue shirt"
  laundry ls laundry
  laundry toggle 2
  laundry submit 4.5
  laundry settings set --current 90 --expires 2026-12-31
`)
}

// exitFor maps the tracker error taxonomy onto exit codes.
func exitFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrValidation),
		errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, tracker.ErrInsufficientBudget),
		errors.Is(err, tracker.ErrImportFormat),
		errors.Is(err, imagefile.ErrNotImage),
		errors.Is(err, imagefile.ErrTooLarge):
		return 2
	}
	return 1
}

func (a *app) failErr(prefix string, err error) int {
	ui.Fail(prefix + ": " + err.Error())
	if errors.Is(err, tracker.ErrNotFound) {
		ui.Hint("run `laundry ls` to see valid indexes")
	}
	return exitFor(err)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ui.Stderr)
	return fs
}

// confirm asks a y/N question on stdin; -y answers yes.
func (a *app) confirm(question string) bool {
	if a.opt.AssumeYes {
		return true
	}
	fmt.Fprintf(ui.Stdout, "%s [y/N] ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(ui.Stdout)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseIndex(cmd string, args []string) (int, bool) {
	if len(args) != 1 {
		ui.Fail(fmt.Sprintf("usage: laundry %s <index>", cmd))
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + args[0])
		return 0, false
	}
	return n, true
}

func parseFilter(args []string) (view.Filter, bool) {
	if len(args) > 1 {
		ui.Fail("usage: laundry ls [all|laundry|cupboard]")
		return "", false
	}
	var s string
	if len(args) == 1 {
		s = args[0]
	}
	f, err := view.ParseFilter(s)
	if err != nil {
		ui.Fail(err.Error())
		return "", false
	}
	return f, true
}

// -------------- item subcommands ----------------

func (a *app) doList(args []string) int {
	f, ok := parseFilter(args)
	if !ok {
		return 2
	}
	st := a.tr.State()
	lines := a.statsLines(st)
	lines = append(lines, "", ui.C(ui.Current().Accent, "Items: "+f.Label()))
	lines = append(lines, itemLines(st.Items, f)...)
	lines = append(lines, "", ui.Dim("Tip: add with `laundry add \"Wool socks\"`"))
	ui.Panel(lines)
	return 0
}

func (a *app) doTUI(args []string) int {
	f, ok := parseFilter(args)
	if !ok {
		return 2
	}
	if err := tui.Run(a.tr, f, a.cfg.Expiry.Interval); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (a *app) doAdd(args []string) int {
	fs := newFlags("add")
	status := fs.String("status", "laundry", "laundry or cupboard")
	image := fs.String("image", "", "path to a photo")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		ui.Fail("usage: laundry add [--status s] [--image f] <name...>")
		return 2
	}
	st, ok := model.ParseStatus(*status)
	if !ok {
		ui.Fail("add: unknown status: " + *status)
		return 2
	}
	var ref string
	if *image != "" {
		var err error
		if ref, err = imagefile.ReadAsDataReference(*image, a.cfg.Image.MaxBytes); err != nil {
			return a.failErr("image", err)
		}
	}
	it, err := a.tr.AddItem(strings.Join(fs.Args(), " "), st, ref)
	if err != nil {
		return a.failErr("add", err)
	}
	ui.OK("added " + it.Name)
	return 0
}

func (a *app) doToggle(args []string) int {
	n, ok := parseIndex("toggle", args)
	if !ok {
		return 2
	}
	it, err := a.tr.ItemAt(n, view.FilterAll)
	if err != nil {
		return a.failErr("toggle", err)
	}
	it, err = a.tr.ToggleStatus(it.ID)
	if err != nil {
		return a.failErr("toggle", err)
	}
	ui.OK(fmt.Sprintf("%s is now %s", it.Name, strings.ToLower(it.Status.Label())))
	return 0
}

func (a *app) doRemove(args []string) int {
	n, ok := parseIndex("rm", args)
	if !ok {
		return 2
	}
	it, err := a.tr.ItemAt(n, view.FilterAll)
	if err != nil {
		return a.failErr("rm", err)
	}
	if !a.confirm(fmt.Sprintf("Delete %q?", it.Name)) {
		ui.OK("kept")
		return 0
	}
	if err := a.tr.DeleteItem(it.ID); err != nil {
		return a.failErr("rm", err)
	}
	ui.OK("removed " + it.Name)
	return 0
}

func (a *app) doEdit(args []string) int {
	fs := newFlags("edit")
	name := fs.String("name", "", "new name")
	image := fs.String("image", "", "path to a new photo")
	clearImage := fs.Bool("clear-image", false, "remove the photo")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	n, ok := parseIndex("edit", fs.Args())
	if !ok {
		return 2
	}
	it, err := a.tr.ItemAt(n, view.FilterAll)
	if err != nil {
		return a.failErr("edit", err)
	}

	var u tracker.ItemUpdate
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "name" {
			u.Name = name
		}
	})
	switch {
	case *clearImage && *image != "":
		ui.Fail("edit: --image and --clear-image are exclusive")
		return 2
	case *clearImage:
		none := ""
		u.Image = &none
	case *image != "":
		ref, err := imagefile.ReadAsDataReference(*image, a.cfg.Image.MaxBytes)
		if err != nil {
			return a.failErr("image", err)
		}
		u.Image = &ref
	}
	if u.Name == nil && u.Image == nil {
		ui.Fail("edit: nothing to change (use --name, --image or --clear-image)")
		return 2
	}
	if it, err = a.tr.UpdateItem(it.ID, u); err != nil {
		return a.failErr("edit", err)
	}
	ui.OK("updated " + it.Name)
	return 0
}

// -------------- consumption subcommands ----------------

func (a *app) doSubmit(args []string) int {
	fs := newFlags("submit")
	date := fs.String("date", "", "day of the load (default today)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		ui.Fail("usage: laundry submit [--date YYYY-MM-DD] <kg>")
		return 2
	}
	d := model.NewDate(a.opt.Now())
	if *date != "" {
		var err error
		if d, err = model.ParseDate(*date); err != nil {
			ui.Fail("submit: " + err.Error())
			return 2
		}
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(fs.Arg(0)), 64)
	if err != nil {
		ui.Fail("submit: weight must be a positive number: " + fs.Arg(0))
		return 2
	}
	rec, err := a.tr.SubmitLaundry(d, w)
	if err != nil {
		return a.failErr("submit", err)
	}
	ui.OK(fmt.Sprintf("laundry submitted: %.1f kg on %s, %.1f kg left",
		rec.Weight, rec.Date.Pretty(), a.tr.Settings().CurrentWeight))
	return 0
}

func (a *app) doHistory(args []string) int {
	if len(args) > 0 {
		if args[0] != "rm" {
			ui.Fail("usage: laundry history [rm <index>]")
			return 2
		}
		return a.doHistoryRemove(args[1:])
	}
	lines := []string{ui.C(ui.Current().Title, "Laundry history")}
	lines = append(lines, historyLines(a.tr.History(), a.opt.Now())...)
	ui.Panel(lines)
	return 0
}

func (a *app) doHistoryRemove(args []string) int {
	n, ok := parseIndex("history rm", args)
	if !ok {
		return 2
	}
	rec, err := a.tr.RecordAt(n)
	if err != nil {
		ui.Fail("history rm: " + err.Error())
		ui.Hint("run `laundry history` to see valid indexes")
		return exitFor(err)
	}
	if !a.confirm(fmt.Sprintf("Delete the %.1f kg load of %s?", rec.Weight, rec.Date.Pretty())) {
		ui.OK("kept")
		return 0
	}
	if _, err := a.tr.DeleteRecord(rec.ID); err != nil {
		return a.failErr("history rm", err)
	}
	ui.OK(fmt.Sprintf("record deleted, %.1f kg restored", rec.Weight))
	return 0
}

func (a *app) doSettings(args []string) int {
	if len(args) == 0 {
		ui.Panel(settingsLines(a.tr.Settings()))
		return 0
	}
	if args[0] != "set" {
		ui.Fail("usage: laundry settings [set ...]")
		return 2
	}
	cur := a.tr.Settings()
	fs := newFlags("settings set")
	total := fs.Float64("total", cur.TotalPackageWeight, "package weight in kg")
	current := fs.Float64("current", cur.CurrentWeight, "weight left in kg")
	expires := fs.String("expires", cur.ExpirationDate.String(), "expiration date YYYY-MM-DD")
	minLoad := fs.Float64("min", cur.MinLoadWeight, "smallest load in kg")
	maxLoad := fs.Float64("max", cur.MaxLoadWeight, "largest load in kg")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	exp, err := model.ParseDate(*expires)
	if err != nil {
		ui.Fail("settings: " + err.Error())
		return 2
	}
	next := model.Settings{
		TotalPackageWeight: *total,
		CurrentWeight:      *current,
		ExpirationDate:     exp,
		MinLoadWeight:      *minLoad,
		MaxLoadWeight:      *maxLoad,
	}
	if err := a.tr.UpdateSettings(next); err != nil {
		return a.failErr("settings", err)
	}
	ui.OK("settings saved")
	return 0
}

func (a *app) doStats() int {
	ui.Panel(a.statsLines(a.tr.State()))
	return 0
}

func (a *app) doExpiry(args []string) int {
	fs := newFlags("expiry")
	watch := fs.Bool("watch", false, "keep refreshing until interrupted")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	mon := expiry.NewMonitor(a.tr.ExpirationDate, a.cfg.Expiry.Interval, func(s expiry.Status) {
		fmt.Fprintln(ui.Stdout, expiryLine(a.tr.Settings().ExpirationDate, s))
	}, expiry.WithClock(a.opt.Now), expiry.WithLogger(a.log))

	if !*watch {
		fmt.Fprintln(ui.Stdout, expiryLine(a.tr.Settings().ExpirationDate, mon.Check()))
		return 0
	}
	ctx, stop := signal.NotifyContext(a.opt.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := mon.Start(ctx); err != nil {
		ui.Fail("expiry: " + err.Error())
		return 1
	}
	<-ctx.Done()
	mon.Stop()
	return 0
}

// -------------- backup subcommands ----------------

func (a *app) doExport(args []string) int {
	if len(args) > 1 {
		ui.Fail("usage: laundry export [file|-]")
		return 2
	}
	path := tracker.BackupFileName(a.opt.Now())
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		if err := a.tr.Export(ui.Stdout); err != nil {
			return a.failErr("export", err)
		}
		return 0
	}
	f, err := os.Create(path)
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	if err := a.tr.Export(f); err != nil {
		f.Close()
		return a.failErr("export", err)
	}
	if err := f.Close(); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK("data exported to " + path)
	return 0
}

func (a *app) doImport(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: laundry import <file>")
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	defer f.Close()
	if !a.confirm("This will replace all current items and settings. Continue?") {
		ui.OK("nothing imported")
		return 0
	}
	if err := a.tr.Import(f); err != nil {
		return a.failErr("import", err)
	}
	ui.OK("data imported successfully")
	return 0
}

func (a *app) doReport(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: laundry report <file.xlsx>")
		return 2
	}
	f, err := os.Create(args[0])
	if err != nil {
		ui.Fail("report: " + err.Error())
		return 1
	}
	if err := report.Write(f, a.tr.State(), a.opt.Now()); err != nil {
		f.Close()
		ui.Fail("report: " + err.Error())
		return 1
	}
	if err := f.Close(); err != nil {
		ui.Fail("report: " + err.Error())
		return 1
	}
	ui.OK("report written to " + args[0])
	return 0
}

func (a *app) doPhoto(args []string) int {
	if len(args) != 2 {
		ui.Fail("usage: laundry photo <index> <file>")
		return 2
	}
	n, ok := parseIndex("photo", args[:1])
	if !ok {
		return 2
	}
	it, err := a.tr.ItemAt(n, view.FilterAll)
	if err != nil {
		return a.failErr("photo", err)
	}
	if !it.HasImage() {
		ui.Fail("photo: " + it.Name + " has no photo")
		return 2
	}
	raw, err := imagefile.Decode(it.Image)
	if err != nil {
		ui.Fail("photo: " + err.Error())
		return 1
	}
	if err := os.WriteFile(args[1], raw, 0o644); err != nil {
		ui.Fail("photo: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("%s photo (%s) written to %s", it.Name, imagefile.MediaType(it.Image), args[1]))
	return 0
}
