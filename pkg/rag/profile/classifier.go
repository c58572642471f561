package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/pkg/llm"
)

const (
	BusinessHotel      = "hotel"
	BusinessRestaurant = "restaurant"
	BusinessGuide      = "guide"
	BusinessOther      = "other"

	IntentRegister           = "register"
	IntentIncreaseVisibility = "increase_visibility"
	IntentJustBrowsing       = "just_browsing"
	IntentOther              = "other"

	KnowledgeNew           = "new"
	KnowledgeKnowsPlatform = "knows_platform"
	KnowledgeRegistered    = "registered"

	Unknown = constant.ProfileUnknown
)

// Profile is the coarse description of who is writing to the assistant.
type Profile struct {
	BusinessType   string `json:"business_type"`
	Intent         string `json:"intent"`
	KnowledgeLevel string `json:"knowledge_level"`
}

func UnknownProfile() Profile {
	return Profile{BusinessType: Unknown, Intent: Unknown, KnowledgeLevel: Unknown}
}

var (
	businessTypes = map[string]string{
		"hotel":       BusinessHotel,
		"restaurant":  BusinessRestaurant,
		"restaurante": BusinessRestaurant,
		"guide":       BusinessGuide,
		"guía":        BusinessGuide,
		"guia":        BusinessGuide,
		"other":       BusinessOther,
		"otro":        BusinessOther,
	}
	intents = map[string]string{
		"register":             IntentRegister,
		"registrarse":          IntentRegister,
		"increase_visibility":  IntentIncreaseVisibility,
		"increase visibility":  IntentIncreaseVisibility,
		"aumentar visibilidad": IntentIncreaseVisibility,
		"just_browsing":        IntentJustBrowsing,
		"just browsing":        IntentJustBrowsing,
		"solo informarse":      IntentJustBrowsing,
		"other":                IntentOther,
		"otro":                 IntentOther,
	}
	knowledgeLevels = map[string]string{
		"new":            KnowledgeNew,
		"nuevo":          KnowledgeNew,
		"knows_platform": KnowledgeKnowsPlatform,
		"knows platform": KnowledgeKnowsPlatform,
		"registered":     KnowledgeRegistered,
		"registrado":     KnowledgeRegistered,
	}
)

// Classifier asks the LLM for a profile of the sender. It never fails: any
// problem degrades to the unknown profile.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, message string) Profile {
	prompt := fmt.Sprintf(constant.ProfileClassifierPrompt, message)
	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		c.logger.Printf("[PROFILE] Classification failed: %v", err)
		return UnknownProfile()
	}

	p, err := Parse(response)
	if err != nil {
		c.logger.Printf("[PROFILE] Unparseable classifier output: %v", err)
		return UnknownProfile()
	}
	return p
}

// Parse extracts a profile from raw classifier output. Markdown fences and
// surrounding chatter are tolerated; values outside the enumerations become
// unknown field by field.
func Parse(response string) (Profile, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return UnknownProfile(), fmt.Errorf("no JSON found in response")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return UnknownProfile(), fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	return Profile{
		BusinessType:   normalize(raw, businessTypes, "business_type", "tipo_negocio"),
		Intent:         normalize(raw, intents, "intent", "intencion"),
		KnowledgeLevel: normalize(raw, knowledgeLevels, "knowledge_level", "nivel_conocimiento"),
	}, nil
}

func normalize(raw map[string]interface{}, allowed map[string]string, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key].(string)
		if !ok {
			continue
		}
		if canonical, ok := allowed[strings.ToLower(strings.TrimSpace(v))]; ok {
			return canonical
		}
		return Unknown
	}
	return Unknown
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
