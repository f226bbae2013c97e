package hook_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/pkg/hook"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

var _ = Describe("Input", func() {
	DescribeTable("ToHookEvent",
		func(in hook.Input, want ipc.HookEvent) {
			got, ok := in.ToHookEvent()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("session start",
			hook.Input{
				SessionID:      "abc",
				HookEventName:  "SessionStart",
				TranscriptPath: "/home/dev/.claude/projects/x/abc.jsonl",
				Cwd:            "/tmp/x",
				Source:         "startup",
			},
			ipc.SessionStart("abc", "/home/dev/.claude/projects/x/abc.jsonl", "/tmp/x")),
		Entry("session start without cwd",
			hook.Input{SessionID: "abc", HookEventName: "SessionStart"},
			ipc.SessionStart("abc", "", "")),
		Entry("session end",
			hook.Input{SessionID: "abc", HookEventName: "SessionEnd", Reason: "exit"},
			ipc.SessionEnd("abc")),
		Entry("notification",
			hook.Input{
				SessionID:        "abc",
				HookEventName:    "Notification",
				Message:          "Claude needs your permission to use Bash",
				NotificationType: "permission_prompt",
			},
			ipc.Notification("abc", "Claude needs your permission to use Bash", "permission_prompt")),
		Entry("stop", hook.Input{SessionID: "abc", HookEventName: "Stop"}, ipc.Stop("abc")),
	)

	DescribeTable("untracked events",
		func(name string) {
			in := hook.Input{SessionID: "abc", HookEventName: name}

			_, ok := in.ToHookEvent()
			Expect(ok).To(BeFalse())
			Expect(in.EventType()).To(Equal(hook.EventTypeUnknown))
		},
		Entry("pre tool use", "PreToolUse"),
		Entry("subagent stop", "SubagentStop"),
		Entry("empty", ""),
		Entry("literal unknown", "Unknown"),
	)

	It("should list the four tracked events", func() {
		Expect(hook.TrackedEvents()).To(HaveLen(4))
		Expect(hook.TrackedEvents()).NotTo(ContainElement(hook.EventTypeUnknown))
	})
})
