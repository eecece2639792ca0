package scanning

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		ollamaServer *ghttp.Server
		scanner      *Ollama
		imageData    []byte
		lines        []string
		err          error
	)

	BeforeEach(func() {
		ollamaServer = ghttp.NewServer()
		var newErr error
		scanner, newErr = NewOllama(ollamaServer.URL()+"/", "llava")
		Expect(newErr).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(png.Encode(&buf, solidImage())).To(Succeed())
		imageData = buf.Bytes()
	})

	AfterEach(func() {
		ollamaServer.Close()
	})

	JustBeforeEach(func() {
		lines, err = scanner.ReadLines(imageData, "image/png")
	})

	When("the model returns a transcription", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					body, readErr := io.ReadAll(r.Body)
					Expect(readErr).NotTo(HaveOccurred())
					var req ollamaChatRequest
					Expect(json.Unmarshal(body, &req)).To(Succeed())
					Expect(req.Model).To(Equal("llava"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Images).To(HaveLen(1))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{
						Role:    "assistant",
						Content: "```json\n[\"John Doe\", \"Manager\", \"Acme Corp\"]\n```",
					},
					Done: true,
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the transcribed lines", func() {
			Expect(lines).To(Equal([]string{"John Doe", "Manager", "Acme Corp"}))
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("should report recognition as unavailable", func() {
			Expect(errors.Is(err, ErrRecognitionUnavailable)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("model not loaded"))
		})
	})

	When("the model answers with prose", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: "I cannot read this card."},
				Done:    true,
			}))
		})

		It("should report recognition as unavailable", func() {
			Expect(errors.Is(err, ErrRecognitionUnavailable)).To(BeTrue())
		})
	})
})
