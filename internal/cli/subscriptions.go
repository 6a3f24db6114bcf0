package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("wrong arguments, see 'help'")

func (a *App) ask(prompt, def string) (string, error) {
	return GetTextWithDefault(a.reader, prompt, def, a.out)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (a *App) Add(ctx context.Context) error {
	var s models.Subscription
	var err error

	if s.Name, err = a.ask("Name", ""); err != nil {
		return err
	}
	desc, err := a.ask("Description (optional)", "")
	if err != nil {
		return err
	}
	s.Description = optional(desc)

	cost, err := a.ask("Cost", "")
	if err != nil {
		return err
	}
	if s.Cost, err = decimal.NewFromString(cost); err != nil {
		return fmt.Errorf("invalid cost %q", cost)
	}
	if s.Currency, err = a.ask("Currency", "USD"); err != nil {
		return err
	}

	period, err := a.ask("Billing period ("+joinPeriods()+")", string(models.BillingMonthly))
	if err != nil {
		return err
	}
	if s.BillingPeriod, err = models.ParseBillingPeriod(period); err != nil {
		return err
	}
	if s.BillingPeriod == models.BillingCustom {
		days, err := a.ask("Cycle length in days", "30")
		if err != nil {
			return err
		}
		if s.BillingCycleDays, err = strconv.Atoi(days); err != nil {
			return fmt.Errorf("invalid cycle length %q", days)
		}
	}

	start, err := a.ask("Start date (YYYY-MM-DD)", models.FormatDate(a.now()))
	if err != nil {
		return err
	}
	if s.StartDate, err = models.ParseDate(start); err != nil {
		return err
	}

	trial, err := a.ask("Trial end date (optional)", "")
	if err != nil {
		return err
	}
	defStatus := models.StatusActive
	if trial != "" {
		d, err := models.ParseDate(trial)
		if err != nil {
			return err
		}
		s.TrialEndDate = &d
		defStatus = models.StatusTrial
	}

	status, err := a.ask("Status", string(defStatus))
	if err != nil {
		return err
	}
	if s.Status, err = models.ParseStatus(status); err != nil {
		return err
	}

	remind, err := a.ask("Remind days before renewal (empty to disable)", "")
	if err != nil {
		return err
	}
	if remind != "" {
		if s.NotifyDaysBefore, err = strconv.Atoi(remind); err != nil {
			return fmt.Errorf("invalid number of days %q", remind)
		}
		s.NotificationsEnabled = true
	}

	if s.Category, err = a.ask("Category (optional)", ""); err != nil {
		return err
	}
	tags, err := a.ask("Tags, comma separated (optional)", "")
	if err != nil {
		return err
	}
	s.Tags = splitTags(tags)
	if s.Notes, err = a.ask("Notes (optional)", ""); err != nil {
		return err
	}
	site, err := a.ask("Website (optional)", "")
	if err != nil {
		return err
	}
	s.WebsiteURL = optional(site)
	email, err := a.ask("Support email (optional)", "")
	if err != nil {
		return err
	}
	s.SupportEmail = optional(email)

	added, err := a.subs.Add(ctx, s)
	if err != nil {
		return err
	}
	a.printf("Added %s (next billing %s)\n", added.ID, models.FormatDate(added.NextBillingDate))
	return nil
}

func (a *App) List(ctx context.Context) error {
	all, err := a.subs.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		a.printf("No subscriptions yet. Use 'add' to create one.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOST\tPERIOD\tNEXT BILLING\tSTATUS")
	for _, s := range all {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Cost.StringFixed(2), s.Currency, s.BillingPeriod,
			models.FormatDate(s.NextBillingDate), s.Status)
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	s, err := a.subs.Get(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", s.ID)
	row("Name", s.Name)
	row("Description", deref(s.Description))
	row("Cost", s.Cost.String()+" "+s.Currency)
	period := string(s.BillingPeriod)
	if s.BillingPeriod == models.BillingCustom {
		period = fmt.Sprintf("every %d days", s.BillingCycleDays)
	}
	row("Billing", period)
	row("Start date", models.FormatDate(s.StartDate))
	row("Next billing", models.FormatDate(s.NextBillingDate))
	if s.TrialEndDate != nil {
		trial := models.FormatDate(*s.TrialEndDate)
		if s.InTrial(a.now()) {
			trial += " (running)"
		} else {
			trial += " (ended)"
		}
		row("Trial ends", trial)
	}
	row("Status", string(s.Status))
	if s.NotificationsEnabled {
		row("Reminder", fmt.Sprintf("%d days before", s.NotifyDaysBefore))
	}
	row("Category", s.Category)
	row("Tags", strings.Join(s.Tags, ", "))
	row("Notes", s.Notes)
	row("Website", deref(s.WebsiteURL))
	row("Support", deref(s.SupportEmail))
	row("Updated", s.UpdatedAt.Local().Format(time.DateTime))
	return tw.Flush()
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	var status string
	if len(args) == 2 {
		status = args[1]
	} else {
		var err error
		status, err = a.ask("New status ("+joinStatuses()+")", "")
		if err != nil {
			return err
		}
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		return err
	}

	s, err := a.subs.SetStatus(ctx, args[0], st)
	if err != nil {
		return err
	}
	a.printf("%s is now %s\n", s.Name, s.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	ok, err := Confirm(a.reader, "Delete subscription "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.subs.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Deleted.\n")
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func joinPeriods() string {
	names := make([]string, len(models.BillingPeriods))
	for i, p := range models.BillingPeriods {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func joinStatuses() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
