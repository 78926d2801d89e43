package questions

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"newsrag/internal/domain"
)

// questionMarker prefixes every line the model is asked to emit.
const questionMarker = "Q:"

// Generator produces suggested questions for processed content. It
// samples chunks, asks the model for content-grounded questions, and
// tops up from a keyword-triggered fallback table when the model's
// output falls short. A failed model call degrades to a fixed generic
// list instead of blocking the session.
//
// Sampling is random on purpose: suggestions vary across runs on the
// same content. The RNG is injected so tests can pin it.
type Generator struct {
	completer    domain.Completer
	rng          *rand.Rand
	opts         domain.CompletionOptions
	count        int
	sampleSize   int
	snippetChars int
	minLength    int
}

// Config configures a Generator.
type Config struct {
	Count        int
	SampleSize   int
	SnippetChars int
	MinLength    int
	Options      domain.CompletionOptions
}

func New(completer domain.Completer, rng *rand.Rand, cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 8
	}
	if cfg.SnippetChars <= 0 {
		cfg.SnippetChars = 800
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = 15
	}
	return &Generator{
		completer:    completer,
		rng:          rng,
		opts:         cfg.Options,
		count:        cfg.Count,
		sampleSize:   cfg.SampleSize,
		snippetChars: cfg.SnippetChars,
		minLength:    cfg.MinLength,
	}
}

// Generate returns exactly the configured number of questions for a
// non-empty chunk set. A non-nil error alongside questions means the
// model call failed and the fixed fallback list was used; the caller
// should surface it as a notice, not abort.
func (g *Generator) Generate(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	combined := g.sampleContext(chunks)
	response, err := g.completer.Complete(ctx, buildPrompt(combined, g.count), g.opts)
	if err != nil {
		out := make([]string, len(serviceFallback))
		copy(out, serviceFallback)
		return out, fmt.Errorf("question generation: %w", err)
	}

	questions := g.parse(response)
	if len(questions) < g.count {
		questions = fillFromFallbacks(questions, combined, g.count)
	}
	return questions[:g.count], nil
}

// sampleContext picks sampleSize chunks uniformly at random without
// replacement and joins a fixed-length prefix of each with blank lines.
func (g *Generator) sampleContext(chunks []domain.Chunk) string {
	n := g.sampleSize
	if n > len(chunks) {
		n = len(chunks)
	}
	perm := g.rng.Perm(len(chunks))
	snippets := make([]string, 0, n)
	for _, idx := range perm[:n] {
		text := []rune(chunks[idx].Text)
		if len(text) > g.snippetChars {
			text = text[:g.snippetChars]
		}
		snippets = append(snippets, string(text))
	}
	return strings.Join(snippets, "\n\n")
}

func buildPrompt(combined string, count int) string {
	return fmt.Sprintf(`Based on the following news content, generate %d specific, insightful questions that would be valuable for understanding and analyzing the topics discussed. Focus on questions about:
- Key events and developments mentioned
- Policy implications and impacts
- Economic and business implications
- Stakeholder perspectives and reactions
- Future outlook and predictions
- Cause-and-effect relationships
- Comparative analysis with similar situations

Content to analyze:
%s

Requirements:
- Generate exactly %d questions, each on a new line starting with "Q:"
- Make questions specific to the actual content provided
- Focus on the main topics, companies, countries, policies, or events mentioned in the text
- Avoid generic questions - be specific to what's actually discussed
- Questions should help readers gain deeper insights into the topics covered`, count, combined, count)
}

// parse keeps lines carrying the marker whose remaining text exceeds
// the minimum length; everything else is dropped silently.
func (g *Generator) parse(response string) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, questionMarker) {
			continue
		}
		q := strings.TrimSpace(strings.TrimPrefix(line, questionMarker))
		if len(q) > g.minLength {
			questions = append(questions, q)
		}
	}
	return questions
}

// fallbackRule pairs a keyword trigger group with its canned questions.
// Rules are evaluated in order against the sampled context.
type fallbackRule struct {
	keywords  []string
	questions []string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"trade", "tariff"},
		questions: []string{
			"What are the main trade issues discussed in the articles?",
			"How might these trade developments affect the economies involved?",
		},
	},
	{
		keywords: []string{"policy", "government"},
		questions: []string{
			"What policy changes or decisions are highlighted?",
			"What are the potential impacts of these policy decisions?",
		},
	},
	{
		keywords: []string{"company", "business"},
		questions: []string{
			"Which companies or sectors are most affected by these developments?",
			"What are the business implications of the events discussed?",
		},
	},
}

// genericFallbacks close every fallback pool so the count guarantee
// holds even when no keyword group matches. The pool is at least as
// large as the default count so the suggestion list stays free of
// repeats.
var genericFallbacks = []string{
	"What are the key developments discussed in these articles?",
	"Who are the main stakeholders affected by these events?",
	"What are the potential future implications of these developments?",
	"How do these events compare to similar situations in the past?",
	"What are the different perspectives on these issues?",
	"What challenges and opportunities are identified in the content?",
	"What background or context helps explain these developments?",
	"What risks or uncertainties are mentioned in the coverage?",
	"How might these events unfold over the coming months?",
	"What questions remain unanswered by the articles?",
}

// serviceFallback is returned when the model call itself fails.
var serviceFallback = []string{
	"What are the main topics and events discussed in the articles?",
	"Who are the key stakeholders or entities mentioned?",
	"What are the potential implications of the developments discussed?",
	"What challenges or issues are highlighted in the content?",
	"How might these events affect different sectors or regions?",
	"What are the different viewpoints or reactions mentioned in the articles?",
}

// fillFromFallbacks appends keyword-triggered questions for every rule
// matching the context, then the generic defaults, until count is
// reached. Duplicates are skipped; only a configured count larger than
// the whole pool cycles the generic list to stay at count.
func fillFromFallbacks(questions []string, combined string, count int) []string {
	contextLower := strings.ToLower(combined)
	var pool []string
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(contextLower, kw) {
				pool = append(pool, rule.questions...)
				break
			}
		}
	}
	pool = append(pool, genericFallbacks...)

	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		seen[q] = struct{}{}
	}
	for _, q := range pool {
		if len(questions) >= count {
			return questions
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		questions = append(questions, q)
	}
	for i := 0; len(questions) < count; i++ {
		questions = append(questions, genericFallbacks[i%len(genericFallbacks)])
	}
	return questions
}
