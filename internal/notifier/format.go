package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"

	"github.com/smykla-skalski/slack-code/pkg/session"
)

// StartMessage is the root message of a session thread.
func StartMessage(sess session.Session) string {
	var b strings.Builder

	b.WriteString("*New Claude Code Session*\n")
	fmt.Fprintf(&b, "*Repository:* `%s`\n", sess.DisplayName())
	fmt.Fprintf(&b, "*Prompt:* %s", sess.Prompt)

	return b.String()
}

// UpdateMessage is a thread reply describing the session status. The user
// is mentioned so the reply notifies them.
func UpdateMessage(userID string, sess session.Session, now time.Time) string {
	text := DescribeStatus(sess, now)
	if userID == "" {
		return text
	}

	return fmt.Sprintf("<@%s> %s", userID, text)
}

// DescribeStatus renders the status of sess as one line.
func DescribeStatus(sess session.Session, now time.Time) string {
	switch sess.Status.Kind {
	case session.StatusKindStarting:
		return "Starting Claude Code session..."

	case session.StatusKindRunning:
		return "Claude is working on your request..."

	case session.StatusKindWaitingForInput:
		switch sess.Status.Reason {
		case session.WaitReasonPermissionPrompt:
			return ":double_vertical_bar: Waiting for permission approval in terminal"
		case session.WaitReasonPlanApproval:
			return ":clipboard: Waiting for plan approval in terminal"
		default:
			return ":white_check_mark: Claude finished working! Waiting for your next input in terminal"
		}

	case session.StatusKindCompleted:
		return ":checkered_flag: Session completed after " + HumanDuration(sess.Duration(now))

	case session.StatusKindFailed:
		return ":x: Session failed: " + sess.Status.Error

	default:
		return sess.Status.String()
	}
}

// HumanDuration renders d with its two most significant units, e.g.
// "1 hour 5 minutes".
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}

	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}
