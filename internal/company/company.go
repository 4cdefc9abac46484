// Package company holds the fixed APEXAI company profile and the static
// catalogs the prompt composer draws from: situation templates, message
// length options, and the per-provider model lists. Nothing here is mutated
// at runtime.
package company

import (
	"fmt"
	"strings"

	"github.com/apexai/draftkit/internal/models"
)

// Service is one entry of the detailed services list, rendered into prompts
// as "Name: Tech".
type Service struct {
	ID   string
	Name string
	Tech string
}

// Info is the immutable company record injected into every system prompt.
type Info struct {
	Name               string
	URL                string
	ServicesPage       string
	ProjectsPage       string
	ServicesSummary    string
	DetailedServices   []Service
	Industry           string
	UniqueValue        string
	Tone               string
	TargetAudience     string
	BrandVoiceKeywords string
}

// APEXAI is the company this assistant drafts messages for.
var APEXAI = Info{
	Name:            "APEXAI",
	URL:             "https://www.apexai.company/",
	ServicesPage:    "https://www.apexai.company/services",
	ProjectsPage:    "https://www.apexai.company/projects",
	ServicesSummary: "Full-Stack Development, Reinforcement Learning, AI/ML Frameworks, MLOps/DevOps, NLP & Vision Models, Data Engineering.",
	Industry:        "AI Development & Full-Stack Solutions",
	UniqueValue:     "We deliver cutting-edge AI and web solutions with a focus on practical application and seamless integration.",
	Tone:            "Professional, innovative, and client-focused",
	TargetAudience:  "Businesses seeking custom AI solutions, automation, or advanced web applications.",
	DetailedServices: []Service{
		{ID: "full-stack", Name: "Full-Stack Development", Tech: "React, Node.js, Next.JS, Flask, FastAPI, Streamlit"},
		{ID: "rl", Name: "Reinforcement Learning", Tech: "DQN, PPO, Custom Control Agents"},
		{ID: "ai-ml-frameworks", Name: "AI/ML Frameworks", Tech: "TensorFlow, PyTorch, Scikit-learn, OpenCV"},
		{ID: "mlops-devops", Name: "MLOps/DevOps", Tech: "Docker, GitHub Actions, MLflow, AWS"},
		{ID: "nlp-vision", Name: "NLP & Vision Models", Tech: "Transformers (Hugging Face), CNNs"},
		{ID: "data-engineering", Name: "Data Engineering", Tech: "ETL pipelines, Web scraping (Selenium, BeautifulSoup)"},
	},
	BrandVoiceKeywords: "innovative, expert, reliable, results-driven, custom, integrated",
}

// DetailedServicePairs renders the services list as "Name: Tech" pairs
// joined with "; ", the format used inside system prompts.
func (i Info) DetailedServicePairs() string {
	pairs := make([]string, len(i.DetailedServices))
	for n, s := range i.DetailedServices {
		pairs[n] = fmt.Sprintf("%s: %s", s.Name, s.Tech)
	}
	return strings.Join(pairs, "; ")
}

// ServiceNames returns just the service names, comma-joined, for templates
// that enumerate offerings without technology detail.
func (i Info) ServiceNames() string {
	names := make([]string, len(i.DetailedServices))
	for n, s := range i.DetailedServices {
		names[n] = s.Name
	}
	return strings.Join(names, ", ")
}

// SituationTemplates returns the per-situation drafting guideline, keyed by
// hyphenated situation name. Templates are email-focused; the composer
// instructs the model to adapt them for message sequences.
func SituationTemplates(c Info) map[string]string {
	return map[string]string{
		"cold-email": fmt.Sprintf(
			"Write a professional cold email that introduces our %s company, %s. Focus on how our services (%s) can benefit the recipient. Keep it concise, personalized, and include a clear call-to-action. Use a %s tone. Mention our website %s for more details.",
			c.Industry, c.Name, c.ServicesSummary, c.Tone, c.URL),
		"followup": fmt.Sprintf(
			"Write a polite follow-up message. Reference previous communication or a recent interaction. Provide additional value or a new piece of information. Maintain engagement without being pushy. Our company is %s. Our tone is %s.",
			c.Name, c.Tone),
		"pitch-agency": fmt.Sprintf(
			"Create an agency pitch for %s. Highlight our expertise in services like %s. Emphasize our unique value proposition: %q. Tailor the pitch to address common client pain points in our industry. The tone should be %s.",
			c.Name, c.ServicesSummary, c.UniqueValue, c.Tone),
		"proposal": fmt.Sprintf(
			"Draft a section for a professional proposal for %s. This section should clearly articulate how our services (e.g., %s) directly address the client's stated needs and objectives. Focus on benefits and outcomes. Our unique value is: %q.",
			c.Name, c.ServiceNames(), c.UniqueValue),
		"meeting-request": fmt.Sprintf(
			"Write a professional meeting request from %s. Clearly state the purpose of the meeting, suggest a brief agenda, and offer flexible timing. Respect the recipient's time. Our tone is %s.",
			c.Name, c.Tone),
		"thank-you": fmt.Sprintf(
			"Compose a genuine thank-you message from %s. Express appreciation for a specific action or opportunity (e.g., a meeting, a referral, their business). Reinforce our professional relationship and commitment. The tone should be %s.",
			c.Name, c.Tone),
	}
}

// Situations lists the template keys in the order the UI presents them.
func Situations() []string {
	return []string{"cold-email", "followup", "pitch-agency", "proposal", "meeting-request", "thank-you"}
}

// LengthOption is one of the four message length levels.
type LengthOption struct {
	Label       string
	Instruction string
}

// DefaultMessageLengthKey selects the "Medium" level.
const DefaultMessageLengthKey = "2"

// MessageLengthOptions returns the 4-level length catalog, keyed "0".."3".
func MessageLengthOptions() map[string]LengthOption {
	return map[string]LengthOption{
		"0": {
			Label:       "Very Short",
			Instruction: "Ensure the response is extremely brief and concise, suitable for quick updates or acknowledgements. For emails, 1-2 short sentences. For messages, a few words to one short sentence.",
		},
		"1": {
			Label:       "Short",
			Instruction: "Generate a short and to-the-point response. For emails, aim for 2-3 concise sentences. For messages, one or two brief sentences.",
		},
		"2": {
			Label:       "Medium",
			Instruction: "Produce a standard, professionally balanced response in terms of length and detail. This is the default length.",
		},
		"3": {
			Label:       "Long",
			Instruction: "Provide a slightly more detailed response, offering more context or explanation if necessary, but maintain professional conciseness. Avoid excessive length; aim for clarity and completeness without being verbose.",
		},
	}
}

// Model is one selectable model of a provider's catalog.
type Model struct {
	Value string
	Label string
}

// ModelCatalog lists the models offered per provider. SelectedModel must be
// one of these values for its provider.
func ModelCatalog() map[models.Provider][]Model {
	return map[models.Provider][]Model{
		models.ProviderOpenAI: {
			{Value: "gpt-4", Label: "GPT-4 (Recommended)"},
			{Value: "gpt-4-turbo", Label: "GPT-4 Turbo"},
			{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
		},
		models.ProviderGoogle: {
			{Value: "gemini-2.5-pro-preview-06-05", Label: "Gemini 2.5 Pro (Preview 06-05)"},
			{Value: "gemini-2.5-flash-preview-05-20", Label: "Gemini 2.5 Flash (Preview 05-20)"},
			{Value: "gemini-2.5-flash-preview-tts", Label: "Gemini 2.5 Flash TTS"},
			{Value: "gemini-2.5-pro-preview-tts", Label: "Gemini 2.5 Pro TTS"},
			{Value: "gemini-2.0-flash", Label: "Gemini 2.0 Flash"},
			{Value: "gemini-2.0-flash-preview-image-generation", Label: "Gemini 2.0 Flash (Image Generation Preview)"},
			{Value: "gemini-2.0-flash-lite", Label: "Gemini 2.0 Flash-Lite"},
		},
	}
}

// ValidModel reports whether value belongs to the provider's catalog.
func ValidModel(p models.Provider, value string) bool {
	for _, m := range ModelCatalog()[p] {
		if m.Value == value {
			return true
		}
	}
	return false
}
