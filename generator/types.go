package generator

import (
	"strconv"
	"strings"
)

// Word count bounds offered by the request form.
const (
	MinWordCount     = 300
	MaxWordCount     = 5000
	WordCountStep    = 50
	DefaultWordCount = 1500
)

// Tone is the desired voice of the written content. Empty means unset.
type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneCasual        Tone = "Casual"
	ToneFriendly      Tone = "Friendly"
	ToneAuthoritative Tone = "Authoritative"
	ToneWitty         Tone = "Witty"
	ToneEmpathetic    Tone = "Empathetic"
	ToneTechnical     Tone = "Technical"
)

// PageType is the kind of page the content is written for.
type PageType string

const (
	PageBlogPost PageType = "Blog Post / Article"
	PageLanding  PageType = "Landing Page"
	PageProduct  PageType = "Product Page"
	PageService  PageType = "Service Page"
	PagePillar   PageType = "Pillar Page"
	PageCase     PageType = "Case Study"
)

// UserIntent is the search intent behind the topic.
type UserIntent string

const (
	IntentInformational UserIntent = "Informational (Know)"
	IntentNavigational  UserIntent = "Navigational (Go)"
	IntentTransactional UserIntent = "Transactional (Do)"
	IntentCommercial    UserIntent = "Commercial Investigation (Investigate)"
)

// Tones lists the selectable tones in display order.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneCasual, ToneFriendly, ToneAuthoritative, ToneWitty, ToneEmpathetic, ToneTechnical}
}

// PageTypes lists the selectable page types in display order.
func PageTypes() []PageType {
	return []PageType{PageBlogPost, PageLanding, PageProduct, PageService, PagePillar, PageCase}
}

// UserIntents lists the selectable intents in display order.
func UserIntents() []UserIntent {
	return []UserIntent{IntentInformational, IntentNavigational, IntentTransactional, IntentCommercial}
}

// BriefRequest carries the parameters of one brief submission.
type BriefRequest struct {
	Topic      string
	Keywords   string
	Tone       Tone
	WordCount  int
	PageType   PageType
	UserIntent UserIntent
}

// NewBriefRequest returns a request for topic with the default word count.
func NewBriefRequest(topic string) BriefRequest {
	return BriefRequest{Topic: topic, WordCount: DefaultWordCount}
}

// Fields returns the named values substituted into the prompt template.
func (r BriefRequest) Fields() map[string]string {
	return map[string]string{
		"topic":       r.Topic,
		"keywords":    r.Keywords,
		"tone":        string(r.Tone),
		"word_count":  strconv.Itoa(r.WordCount),
		"page_type":   string(r.PageType),
		"user_intent": string(r.UserIntent),
	}
}

// HasTopic reports whether the required topic is present.
func (r BriefRequest) HasTopic() bool {
	return strings.TrimSpace(r.Topic) != ""
}

// NormalizeWordCount snaps user input onto the form's range and step.
// Zero means "not provided" and yields the default.
func NormalizeWordCount(n int) int {
	if n == 0 {
		return DefaultWordCount
	}
	if n < MinWordCount {
		return MinWordCount
	}
	if n > MaxWordCount {
		return MaxWordCount
	}
	rem := (n - MinWordCount) % WordCountStep
	if rem == 0 {
		return n
	}
	if rem*2 >= WordCountStep {
		n += WordCountStep - rem
	} else {
		n -= rem
	}
	if n > MaxWordCount {
		n = MaxWordCount
	}
	return n
}

// RenderedPrompt is the complete instruction document sent to the backend.
type RenderedPrompt string

// BriefResult holds either a generated brief or a user-facing error message.
type BriefResult struct {
	ok      bool
	brief   string
	message string
}

// Success wraps backend text as a successful result.
func Success(text string) BriefResult {
	return BriefResult{ok: true, brief: text}
}

// Failure wraps a diagnostic message as a failed result.
func Failure(message string) BriefResult {
	return BriefResult{message: message}
}

func (r BriefResult) OK() bool        { return r.ok }
func (r BriefResult) Brief() string   { return r.brief }
func (r BriefResult) Message() string { return r.message }
