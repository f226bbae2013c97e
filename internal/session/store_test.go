package session_test

import (
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/session"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	model "github.com/smykla-skalski/slack-code/pkg/session"
)

var _ = Describe("Store", func() {
	var (
		store       *session.Store
		currentTime time.Time
	)

	advance := func(d time.Duration) {
		currentTime = currentTime.Add(d)
	}

	BeforeEach(func() {
		currentTime = time.Date(2025, 12, 4, 10, 30, 0, 0, time.UTC)
		store = session.NewStore(
			session.WithTimeFunc(func() time.Time { return currentTime }),
		)
	})

	Describe("session start", func() {
		It("registers a running external session", func() {
			update, ok := store.ApplyHookEvent(ipc.SessionStart("abc", "/tmp/t.jsonl", "/tmp/x"))
			Expect(ok).To(BeTrue())
			Expect(update.Created).To(BeTrue())
			Expect(update.StatusChanged).To(BeTrue())

			s := update.Session
			Expect(s.ID).NotTo(Equal(uuid.Nil))
			Expect(s.ClaudeSessionID).To(Equal("abc"))
			Expect(s.RepoPath).To(Equal("/tmp/x"))
			Expect(s.Prompt).To(Equal(model.ExternalPrompt))
			Expect(s.Status).To(Equal(model.Running))
			Expect(s.StartedAt).To(Equal(currentTime))
			Expect(s.EndedAt).To(BeNil())
			Expect(s.TranscriptPath).To(Equal("/tmp/t.jsonl"))
		})

		It("keeps one record per Claude session", func() {
			first, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))

			for range 5 {
				update, ok := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
				Expect(ok).To(BeTrue())
				Expect(update.Created).To(BeFalse())
				Expect(update.StatusChanged).To(BeFalse())
				Expect(update.Session.ID).To(Equal(first.Session.ID))
			}

			Expect(store.Len()).To(Equal(1))
		})

		It("reports a status change when a waiting session restarts", func() {
			store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			store.ApplyHookEvent(ipc.Stop("abc"))

			update, ok := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			Expect(ok).To(BeTrue())
			Expect(update.StatusChanged).To(BeTrue())
			Expect(update.Session.Status).To(Equal(model.Running))
		})

		It("clears the end time when a completed session resumes", func() {
			store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			store.ApplyHookEvent(ipc.SessionEnd("abc"))

			update, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			Expect(update.Session.Status).To(Equal(model.Running))
			Expect(update.Session.EndedAt).To(BeNil())
		})

		It("uses the injected id generator", func() {
			id := uuid.MustParse("6f1c1c8e-2a4b-4c3d-9e8f-0a1b2c3d4e5f")
			store = session.NewStore(session.WithIDFunc(func() uuid.UUID { return id }))

			update, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			Expect(update.Session.ID).To(Equal(id))
		})
	})

	DescribeTable("unknown sessions are ignored",
		func(event ipc.HookEvent) {
			update, ok := store.ApplyHookEvent(event)
			Expect(ok).To(BeFalse())
			Expect(update).To(Equal(session.Update{}))
			Expect(store.Len()).To(BeZero())
		},
		Entry("session end", ipc.SessionEnd("zzz")),
		Entry("notification", ipc.Notification("zzz", "hi", model.NotificationIdlePrompt)),
		Entry("stop", ipc.Stop("zzz")),
	)

	Describe("notifications", func() {
		BeforeEach(func() {
			store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
		})

		DescribeTable("classify the wait reason",
			func(message, notificationType string, want model.WaitReason) {
				update, ok := store.ApplyHookEvent(ipc.Notification("abc", message, notificationType))
				Expect(ok).To(BeTrue())
				Expect(update.Session.Status).To(Equal(model.WaitingForInput(want)))
				Expect(update.StatusChanged).To(BeTrue())
			},
			Entry("permission prompt", "please approve", model.NotificationPermissionPrompt, model.WaitReasonPermissionPrompt),
			Entry("idle prompt", "waiting", model.NotificationIdlePrompt, model.WaitReasonIdlePrompt),
			Entry("no type", "waiting", "", model.WaitReasonIdlePrompt),
			Entry("plan wins over type", "Please review the Plan", model.NotificationPermissionPrompt, model.WaitReasonPlanApproval),
			Entry("plan without type", "PLAN ready", "", model.WaitReasonPlanApproval),
		)

		It("reports no change for a repeated notification", func() {
			store.ApplyHookEvent(ipc.Notification("abc", "waiting", model.NotificationIdlePrompt))

			update, ok := store.ApplyHookEvent(ipc.Notification("abc", "still waiting", model.NotificationIdlePrompt))
			Expect(ok).To(BeTrue())
			Expect(update.StatusChanged).To(BeFalse())
		})
	})

	It("models stop as an idle prompt", func() {
		store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))

		update, ok := store.ApplyHookEvent(ipc.Stop("abc"))
		Expect(ok).To(BeTrue())
		Expect(update.Session.Status).To(Equal(model.WaitingForInput(model.WaitReasonIdlePrompt)))
	})

	It("completes a session with an end time after its start", func() {
		start, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
		advance(time.Minute)

		update, ok := store.ApplyHookEvent(ipc.SessionEnd("abc"))
		Expect(ok).To(BeTrue())
		Expect(update.StatusChanged).To(BeTrue())
		Expect(update.Session.Status).To(Equal(model.Completed))
		Expect(update.Session.EndedAt).NotTo(BeNil())
		Expect(update.Session.EndedAt.After(start.Session.StartedAt)).To(BeTrue())
	})

	It("runs the end-to-end scenario", func() {
		start, ok := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
		Expect(ok).To(BeTrue())
		Expect(start.Session.Status).To(Equal(model.Running))
		Expect(store.Len()).To(Equal(1))

		advance(time.Second)

		waiting, ok := store.ApplyHookEvent(ipc.Notification("abc", "Claude is waiting", "idle_prompt"))
		Expect(ok).To(BeTrue())
		Expect(waiting.Session.ID).To(Equal(start.Session.ID))
		Expect(waiting.Session.Status).To(Equal(model.WaitingForInput(model.WaitReasonIdlePrompt)))

		advance(time.Second)

		ended, ok := store.ApplyHookEvent(ipc.SessionEnd("abc"))
		Expect(ok).To(BeTrue())
		Expect(ended.Session.Status).To(Equal(model.Completed))
		Expect(ended.Session.EndedAt).NotTo(BeNil())

		_, ok = store.ApplyHookEvent(ipc.Stop("zzz"))
		Expect(ok).To(BeFalse())
		Expect(store.Len()).To(Equal(1))
	})

	Describe("SetNotificationThread", func() {
		It("attaches a thread once", func() {
			update, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			id := update.Session.ID

			Expect(store.SetNotificationThread(id, model.Thread{ChannelID: "D1", ParentTS: "1.1"})).To(BeTrue())
			Expect(store.SetNotificationThread(id, model.Thread{ChannelID: "D2", ParentTS: "2.2"})).To(BeFalse())

			got, ok := store.Get(id)
			Expect(ok).To(BeTrue())
			Expect(got.SlackThread).To(Equal(&model.Thread{ChannelID: "D1", ParentTS: "1.1"}))
		})

		It("ignores unknown sessions", func() {
			Expect(store.SetNotificationThread(uuid.New(), model.Thread{ChannelID: "D1"})).To(BeFalse())
			Expect(store.Len()).To(BeZero())
		})
	})

	Describe("snapshots", func() {
		It("does not leak internal pointers", func() {
			update, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			store.SetNotificationThread(update.Session.ID, model.Thread{ChannelID: "D1", ParentTS: "1.1"})

			list := store.ListSessions()
			Expect(list).To(HaveLen(1))
			list[0].SlackThread.ParentTS = "mutated"
			list[0].Prompt = "mutated"

			got, _ := store.Get(update.Session.ID)
			Expect(got.SlackThread.ParentTS).To(Equal("1.1"))
			Expect(got.Prompt).To(Equal(model.ExternalPrompt))
		})

		It("lists every session", func() {
			store.ApplyHookEvent(ipc.SessionStart("a", "", "/a"))
			store.ApplyHookEvent(ipc.SessionStart("b", "", "/b"))
			store.ApplyHookEvent(ipc.SessionStart("c", "", "/c"))

			paths := make([]string, 0, 3)
			for _, s := range store.ListSessions() {
				paths = append(paths, s.RepoPath)
			}

			Expect(paths).To(ConsistOf("/a", "/b", "/c"))
		})
	})

	Describe("SweepExpired", func() {
		It("removes old finished sessions only", func() {
			old, _ := store.ApplyHookEvent(ipc.SessionStart("old", "", "/old"))
			store.ApplyHookEvent(ipc.SessionEnd("old"))

			advance(2 * time.Hour)

			young, _ := store.ApplyHookEvent(ipc.SessionStart("young", "", "/young"))
			store.ApplyHookEvent(ipc.SessionEnd("young"))
			active, _ := store.ApplyHookEvent(ipc.SessionStart("active", "", "/active"))

			advance(30 * time.Minute)

			removed := store.SweepExpired(time.Hour)
			Expect(removed).To(ConsistOf(old.Session.ID))
			Expect(store.Len()).To(Equal(2))

			_, ok := store.Get(young.Session.ID)
			Expect(ok).To(BeTrue())
			_, ok = store.Get(active.Session.ID)
			Expect(ok).To(BeTrue())
		})

		It("never removes active sessions", func() {
			store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			advance(1000 * time.Hour)

			Expect(store.SweepExpired(time.Minute)).To(BeEmpty())
			Expect(store.Len()).To(Equal(1))
		})

		It("frees the Claude session id for a new record", func() {
			first, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			store.ApplyHookEvent(ipc.SessionEnd("abc"))
			advance(2 * time.Hour)

			Expect(store.SweepExpired(time.Hour)).To(HaveLen(1))

			_, ok := store.ApplyHookEvent(ipc.Stop("abc"))
			Expect(ok).To(BeFalse())

			second, _ := store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
			Expect(second.Created).To(BeTrue())
			Expect(second.Session.ID).NotTo(Equal(first.Session.ID))
		})
	})

	It("is safe for concurrent readers and a writer", func() {
		var wg sync.WaitGroup

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer GinkgoRecover()

			for range 100 {
				store.ApplyHookEvent(ipc.SessionStart("abc", "", "/tmp/x"))
				store.ApplyHookEvent(ipc.Stop("abc"))
			}
		}()

		for range 4 {
			wg.Add(1)

			go func() {
				defer wg.Done()
				defer GinkgoRecover()

				for range 100 {
					Expect(len(store.ListSessions())).To(BeNumerically("<=", 1))
				}
			}()
		}

		wg.Wait()
		Expect(store.Len()).To(Equal(1))
	})
})
