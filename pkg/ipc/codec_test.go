package ipc_test

import (
	"bufio"
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

var _ = Describe("Frame codec", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should prefix the body with a big-endian length", func() {
		Expect(ipc.WriteFrame(buf, []byte(`"Ping"`))).To(Succeed())

		Expect(buf.Bytes()[:4]).To(Equal([]byte{0, 0, 0, 6}))
		Expect(buf.String()[4:]).To(Equal(`"Ping"`))
	})

	It("should read back consecutive frames", func() {
		Expect(ipc.WriteFrame(buf, []byte("first"))).To(Succeed())
		Expect(ipc.WriteFrame(buf, []byte(""))).To(Succeed())
		Expect(ipc.WriteFrame(buf, []byte("zażółć"))).To(Succeed())

		for _, want := range []string{"first", "", "zażółć"} {
			got, err := ipc.ReadFrame(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal(want))
		}
	})

	It("should flush buffered writers", func() {
		w := bufio.NewWriter(buf)

		Expect(ipc.WriteFrame(w, []byte("x"))).To(Succeed())
		Expect(buf.Len()).To(Equal(5))
	})

	It("should report a closed peer when nothing is left", func() {
		_, err := ipc.ReadFrame(buf)
		Expect(err).To(MatchError(ipc.ErrPeerClosed))
	})

	It("should fail on a truncated header", func() {
		buf.Write([]byte{0, 0})

		_, err := ipc.ReadFrame(buf)
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(ipc.ErrPeerClosed))
	})

	It("should fail on a truncated body", func() {
		buf.Write([]byte{0, 0, 0, 10, 'a', 'b'})

		_, err := ipc.ReadFrame(buf)
		Expect(err).To(HaveOccurred())
	})

	It("should reject invalid UTF-8", func() {
		Expect(ipc.WriteFrame(buf, []byte{0xff, 0xfe})).To(Succeed())

		_, err := ipc.ReadFrame(buf)
		Expect(err).To(MatchError(ipc.ErrInvalidUTF8))
	})

	It("should reject oversized frames before reading the body", func() {
		header := make([]byte, 4)
		binary.BigEndian.PutUint32(header, ipc.MaxFrameSize+1)
		buf.Write(header)

		_, err := ipc.ReadFrame(buf)
		Expect(err).To(MatchError(ipc.ErrFrameTooLarge))
	})

	It("should refuse to write oversized frames", func() {
		err := ipc.WriteFrame(buf, make([]byte, ipc.MaxFrameSize+1))
		Expect(err).To(MatchError(ipc.ErrFrameTooLarge))
		Expect(buf.Len()).To(BeZero())
	})

	Describe("messages", func() {
		DescribeTable("hook events survive the codec",
			func(ev ipc.HookEvent) {
				Expect(ipc.WriteMessage(buf, ev)).To(Succeed())

				in, err := ipc.ReadInbound(buf)
				Expect(err).NotTo(HaveOccurred())
				Expect(in.Command).To(BeNil())
				Expect(in.Hook).To(Equal(&ev))
			},
			Entry("session start", ipc.SessionStart("abc", "/t/abc.jsonl", "/tmp/x")),
			Entry("session start without transcript", ipc.SessionStart("abc", "", "/tmp/x")),
			Entry("session end", ipc.SessionEnd("abc")),
			Entry("notification", ipc.Notification("abc", "Claude needs your permission", "permission_prompt")),
			Entry("notification without type", ipc.Notification("abc", "hi", "")),
			Entry("stop", ipc.Stop("abc")),
		)

		DescribeTable("commands survive the codec",
			func(cmd ipc.Command) {
				Expect(ipc.WriteMessage(buf, cmd)).To(Succeed())

				in, err := ipc.ReadInbound(buf)
				Expect(err).NotTo(HaveOccurred())
				Expect(in.Hook).To(BeNil())
				Expect(*in.Command).To(Equal(cmd))
			},
			Entry("subscribe", ipc.Subscribe),
			Entry("unsubscribe", ipc.Unsubscribe),
			Entry("get sessions", ipc.GetSessions),
			Entry("get config", ipc.GetConfig),
			Entry("ping", ipc.Ping),
		)

		It("should decode into a target value", func() {
			Expect(ipc.WriteMessage(buf, ipc.StatusEvent(ipc.Connected))).To(Succeed())

			var ev ipc.DaemonEvent
			Expect(ipc.ReadMessage(buf, &ev)).To(Succeed())
			Expect(ev.Kind).To(Equal(ipc.EventKindStatus))
			Expect(ev.Status).To(Equal(ipc.Connected))
		})
	})
})
