// Command leadform-cli runs the lead-intake assessment as an interactive
// terminal wizard and prints the scored handoff summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/caarlos0/env/v11"

	leadform "github.com/goliatone/go-leadform"
	"github.com/goliatone/go-leadform/pkg/formdef"
	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/result"
	"github.com/goliatone/go-leadform/pkg/template"
)

var errAborted = errors.New("aborted")

func main() {
	formPath := flag.String("form", "", "form definition YAML (embedded intake form if empty)")
	destination := flag.String("destination", "results.html", "results page URL the payload fragment is appended to")
	templateID := flag.String("template", "confirmation", "confirmation email template id")
	devMail := flag.Bool("dev-mail", false, "print the confirmation email instead of sending it")
	flag.Parse()

	ctx := context.Background()

	def, err := loadDefinition(*formPath)
	if err != nil {
		log.Fatalf("load form: %v", err)
	}

	sessionStore := handoff.NewMemoryStore()
	durableStore := handoff.NewMemoryStore()
	channels := handoff.NewChannels(sessionStore, durableStore)

	sender, err := buildSender(*devMail)
	if err != nil {
		log.Fatalf("configure mailer: %v", err)
	}
	dispatcher := notify.NewDispatcher(sender, sessionStore, *templateID)

	sess, err := leadform.NewSession(def,
		leadform.WithChannels(channels),
		leadform.WithDispatcher(dispatcher),
		leadform.WithDestination(*destination),
	)
	if err != nil {
		log.Fatalf("build session: %v", err)
	}

	sub, err := run(ctx, sess, def)
	if err != nil {
		if errors.Is(err, errAborted) {
			fmt.Println("Assessment cancelled.")
			os.Exit(1)
		}
		log.Fatalf("run wizard: %v", err)
	}

	printSummary(sub, channels)
}

func loadDefinition(path string) (formdef.Definition, error) {
	if path == "" {
		return leadform.DefaultDefinition()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return formdef.Definition{}, err
	}
	return formdef.Parse(data)
}

// buildSender prefers Postmark when the environment carries credentials and
// falls back to printing the rendered email.
func buildSender(forceDev bool) (notify.Notifier, error) {
	var cfg notify.Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if forceDev || !cfg.Enabled() {
		return notify.NewDevSender(os.Stdout), nil
	}
	engine, err := template.New(template.WithFS(notify.TemplatesFS()))
	if err != nil {
		return nil, err
	}
	return notify.NewPostmarkSender(cfg, engine)
}

func run(ctx context.Context, sess *leadform.Session, def formdef.Definition) (leadform.Submission, error) {
	reg := sess.Registry()
	for {
		step := sess.Wizard().Index()
		if title := def.Steps[step].Title; title != "" {
			fmt.Printf("\n## %s\n\n", title)
		}
		if pct, shown := sess.Progress(); shown {
			fmt.Printf("Progress: %d%%\n\n", pct)
		}

		if err := promptStep(ctx, sess, step); err != nil {
			return leadform.Submission{}, err
		}

		if sess.Wizard().Last() {
			sub, err := sess.Submit(ctx)
			if err != nil {
				return leadform.Submission{}, err
			}
			if sub.Valid {
				return sub, nil
			}
			printStepErrors(reg, step)
			continue
		}
		if !sess.Next() {
			printStepErrors(reg, step)
		}
	}
}

// promptStep asks each visible control and group on the step. Answering a
// trigger control can reveal its detail control, so the pass repeats until no
// unanswered visible control remains.
func promptStep(ctx context.Context, sess *leadform.Session, step int) error {
	reg := sess.Registry()
	asked := make(map[string]bool)
	for {
		progressed := false
		for _, ctrl := range reg.StepControls(step) {
			if asked[ctrl.ID] || ctrl.Hidden || ctrl.Disabled || ctrl.Kind == model.ControlCheckbox {
				continue
			}
			if err := promptControl(ctx, sess, ctrl); err != nil {
				return err
			}
			asked[ctrl.ID] = true
			progressed = true
		}
		for _, group := range reg.StepGroups(step) {
			if asked["group:"+group.Key] {
				continue
			}
			if err := promptGroup(ctx, sess, group); err != nil {
				return err
			}
			asked["group:"+group.Key] = true
			progressed = true
		}
		if !progressed {
			return nil
		}
	}
}

func promptControl(ctx context.Context, sess *leadform.Session, ctrl *model.Control) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch ctrl.Kind {
	case model.ControlSelect:
		var out string
		prompt := &survey.Select{Message: ctrl.Label, Options: ctrl.Options}
		if err := survey.AskOne(prompt, &out); err != nil {
			return translateSurveyErr(err)
		}
		return sess.Change(ctrl.ID, out)
	case model.ControlTextarea:
		var out string
		prompt := &survey.Multiline{Message: ctrl.Label}
		if err := survey.AskOne(prompt, &out); err != nil {
			return translateSurveyErr(err)
		}
		return sess.Change(ctrl.ID, out)
	default:
		var out string
		prompt := &survey.Input{Message: ctrl.Label, Default: ctrl.Value}
		validator := func(ans any) error {
			value, _ := ans.(string)
			if err := sess.Change(ctrl.ID, value); err != nil {
				return err
			}
			if err := sess.Blur(ctrl.ID); err != nil {
				return err
			}
			if ctrl.Validity == model.ValidityInvalid {
				return errors.New(ctrl.Message)
			}
			return nil
		}
		if err := survey.AskOne(prompt, &out, survey.WithValidator(validator)); err != nil {
			return translateSurveyErr(err)
		}
		return nil
	}
}

func promptGroup(ctx context.Context, sess *leadform.Session, group *model.CheckboxGroup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reg := sess.Registry()
	members := reg.Members(group.Key)
	options := make([]string, len(members))
	for i, member := range members {
		options[i] = member.Label
	}

	for {
		var picked []string
		prompt := &survey.MultiSelect{Message: group.Label, Options: options}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return translateSurveyErr(err)
		}
		selected := make(map[string]bool, len(picked))
		for _, label := range picked {
			selected[label] = true
		}
		for _, member := range members {
			// Toggle can refuse over-max picks; the group message covers it.
			_ = sess.Toggle(member.ID, selected[member.Label])
		}
		if group.Invalid {
			fmt.Println(group.Message)
			continue
		}
		return nil
	}
}

func printStepErrors(reg *model.Registry, step int) {
	for _, ctrl := range reg.StepControls(step) {
		if ctrl.Validity == model.ValidityInvalid && ctrl.Message != "" {
			fmt.Printf("  %s: %s\n", ctrl.Label, ctrl.Message)
		}
	}
	for _, group := range reg.StepGroups(step) {
		if group.Invalid && group.Message != "" {
			fmt.Printf("  %s: %s\n", group.Label, group.Message)
		}
	}
}

func printSummary(sub leadform.Submission, channels handoff.Channels) {
	view := result.Personalize(channels, "", sub.Payload.LeadTier)

	fmt.Printf("\n%s\n%s\n\n", view.Copy.Title, view.Copy.Subtitle)
	fmt.Printf("Lead tier: %s (score %d)\n", sub.Score.Tier, sub.Score.Score)
	if sub.Score.Notes != "" {
		fmt.Printf("Notes: %s\n", sub.Score.Notes)
	}
	fmt.Printf("Recommended cameras: %d on a %d-channel recorder\n", sub.Plan.CameraCount, sub.Plan.NVRChannel)
	for _, loc := range sub.Plan.Locations {
		fmt.Printf("  - %s\n", loc)
	}
	if sub.Notified != nil {
		fmt.Printf("\n%s\n", sub.Notified.Status)
	}
	if view.Copy.CTA != nil {
		fmt.Printf("\n%s: %s\n", view.Copy.CTA.Text, view.Copy.CTA.URL)
	}
	fmt.Printf("\nResults: %s\n", sub.RedirectURL)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
