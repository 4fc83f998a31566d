package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
	"github.com/mobsuccess-devops/github-actions-asana/internal/synchronize"
)

// Classification is what a pass derives from a pull request before
// touching the task
type Classification struct {
	TaskID  string
	Status  models.TaskStatus
	Verdict models.ReviewVerdict
}

// DebugReport renders what the synchronizer sees in an event
func DebugReport(ev github.Event, c Classification) string {
	lines := []string{
		SectionHeader("EVENT", ColorCyan),
		KeyValue("name", ev.Name),
		KeyValue("action", ev.Action),
		KeyValue("repository", ev.Repository.FullName()),
		KeyValue("merge group", strconv.FormatBool(ev.MergeGroup)),
	}

	cr := ev.PullRequest
	if cr == nil || ev.MergeGroup {
		lines = append(lines, "", StatusLine("skipped", "no pull request to synchronize"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		"",
		SectionHeader("PULL REQUEST", ColorMagenta),
		KeyValue("number", cr.NumberString()),
		KeyValue("url", cr.HTMLURL),
		KeyValue("head", cr.HeadRef),
		KeyValue("draft", strconv.FormatBool(cr.Draft)),
		KeyValue("merged", strconv.FormatBool(cr.IsMerged())),
		KeyValue("requested reviewers", Logins(cr.RequestedReviewers)),
		KeyValue("assignees", Logins(cr.Assignees)),
		KeyValue("labels", strings.Join(cr.Labels, ", ")),
		KeyValue("asana task", c.TaskID),
		"",
		SectionHeader("STATUS", StatusColor(c.Status)),
		Box(strings.Join([]string{
			KeyValue("status", StatusBadge(c.Status)),
			KeyValue("approved", strconv.FormatBool(c.Verdict.IsApproved)),
			KeyValue("changes requested", strconv.FormatBool(c.Verdict.IsRejected)),
		}, "\n"), StatusColor(c.Status)),
	)
	return strings.Join(lines, "\n")
}

// Summary renders the outcome of a synchronization pass
func Summary(res *synchronize.Result, err error) string {
	lines := []string{SectionHeader("SYNC", ColorCyan)}

	if res != nil {
		if res.TaskID == "" {
			lines = append(lines, StatusLine("skipped", "no asana task linked"))
			return strings.Join(lines, "\n")
		}
		lines = append(lines,
			KeyValue("task", res.TaskID),
			KeyValue("status", StatusBadge(res.Status)),
		)
		if res.Corrected {
			lines = append(lines, StatusLine("updated", "tester review request turned into an assignment"))
		}
		if d := res.Decision; d != nil {
			lines = append(lines, StatusLine("moved", fmt.Sprintf("moved to %s in %d project(s)", d.Target, res.Moves)))
		} else {
			lines = append(lines, StatusLine("skipped", "task stays in its section"))
		}
		if res.Update != nil {
			lines = append(lines, StatusLine("updated", fmt.Sprintf("%d field(s) written", len(res.Update.Fields)+1)))
		}
		if res.Bypassed {
			lines = append(lines, StatusLine("success", "merge allowed without a completed task"))
		}
	}

	switch {
	case err == nil:
		lines = append(lines, StatusLine("success", "done"))
	case errors.Is(err, synchronize.ErrTaskNotCompleted):
		lines = append(lines, StatusLine("failed", err.Error()))
	default:
		lines = append(lines, StatusLine("error", err.Error()))
	}
	return strings.Join(lines, "\n")
}
