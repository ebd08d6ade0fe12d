package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgo/equimind/api/internal/model"
)

// TextGenerator produces free text from a system prompt and a user message
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Coach reply categories
const (
	CoachCategoryWelcome = "welcome"
	CoachCategoryGeneral = "general"
	CoachCategoryError   = "error"
)

// FallbackChatMessage is returned when the text generator cannot answer
const FallbackChatMessage = "I apologize, but I'm having trouble responding right now. Please try again in a moment, or proceed with your preparation steps."

const coachSystemPrompt = `You are EquiMind, a supportive mental performance coach for equestrian riders.
Keep answers short, warm and practical. Suggest concrete breathing, grounding or
visualization exercises when the rider is anxious. Never give veterinary or medical advice.
If the rider describes danger while mounted, tell them to stop, dismount safely and breathe.`

const planSystemPrompt = `You are EquiMind, a mental performance coach preparing an equestrian rider
for a competition. Write a short motivating summary (at most five sentences) of how
the rider should approach the preparation period. Do not list phases or schedules.`

// CoachService wraps the text generator with pre-authored fallbacks so riders
// always get a response
type CoachService struct {
	generator TextGenerator
}

// CoachServiceConfig holds configuration for the coach service
type CoachServiceConfig struct {
	Generator TextGenerator // nil disables generation; every reply is a fallback
}

// NewCoachService creates a new coach service
func NewCoachService(cfg CoachServiceConfig) *CoachService {
	return &CoachService{generator: cfg.Generator}
}

// Initialize returns an opening message for a coaching session
func (s *CoachService) Initialize(ctx context.Context, req *model.CoachInitializeRequest) *model.CoachMessage {
	rc := model.RiderContext{
		Name:                  req.RiderName,
		ExperienceLevel:       req.ExperienceLevel,
		PreferredDisciplines:  req.PreferredDisciplines,
		CurrentEmotionalState: req.CurrentEmotionalState,
		SessionType:           req.SessionType,
		RideType:              req.RideType,
	}

	msg := "Start the session with a short welcome and one suggestion that fits how I feel right now."
	text, err := s.generate(ctx, "initialize", coachSystemPrompt+"\n\n"+describeRider(rc), msg)
	if err != nil {
		return &model.CoachMessage{
			Message:  fallbackWelcome(rc),
			Category: CoachCategoryWelcome,
			Fallback: true,
		}
	}
	return &model.CoachMessage{Message: text, Category: CoachCategoryWelcome}
}

// Chat answers one rider message in the context of the recent conversation
func (s *CoachService) Chat(ctx context.Context, req *model.CoachChatRequest) *model.CoachMessage {
	var b strings.Builder
	if len(req.ConversationHistory) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, m := range req.ConversationHistory {
			role := "Rider"
			if m.Type == "ai" {
				role = "Coach"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString(req.Message)

	text, err := s.generate(ctx, "chat", coachSystemPrompt+"\n\n"+describeRider(req.RiderContext), b.String())
	if err != nil {
		return &model.CoachMessage{
			Message:  FallbackChatMessage,
			Category: CoachCategoryError,
			Fallback: true,
		}
	}
	return &model.CoachMessage{Message: text, Category: CoachCategoryGeneral}
}

// CompetitionPlan builds a phased preparation plan. The structure is fixed;
// the summary comes from the text generator when it is available.
func (s *CoachService) CompetitionPlan(ctx context.Context, req *model.CompetitionPlanRequest) *model.CompetitionPlan {
	plan := DefaultCompetitionPlan(req.DaysUntilCompetition)

	disciplines := make([]string, 0, len(req.PreferredDisciplines))
	for _, d := range req.PreferredDisciplines {
		disciplines = append(disciplines, string(d))
	}
	msg := fmt.Sprintf("Competition: %s\nDays until competition: %d\nExperience: %s\nDisciplines: %s",
		req.CompetitionType, req.DaysUntilCompetition, req.RiderExperience, strings.Join(disciplines, ", "))

	text, err := s.generate(ctx, "competition_plan", planSystemPrompt, msg)
	if err != nil {
		plan.Fallback = true
		return plan
	}
	plan.Summary = text
	return plan
}

func (s *CoachService) generate(ctx context.Context, op, systemPrompt, userMessage string) (string, error) {
	if s.generator == nil {
		return "", ErrGenerationDisabled
	}
	text, err := s.generator.Generate(ctx, systemPrompt, userMessage)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyGeneration
	}
	if err != nil {
		slog.Warn("coach falling back to static response",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func describeRider(rc model.RiderContext) string {
	var parts []string
	if rc.Name != "" {
		parts = append(parts, "Rider name: "+rc.Name)
	}
	if rc.ExperienceLevel != "" {
		parts = append(parts, "Experience level: "+rc.ExperienceLevel)
	}
	if len(rc.PreferredDisciplines) > 0 {
		ds := make([]string, 0, len(rc.PreferredDisciplines))
		for _, d := range rc.PreferredDisciplines {
			ds = append(ds, string(d))
		}
		parts = append(parts, "Disciplines: "+strings.Join(ds, ", "))
	}
	if rc.CurrentEmotionalState != "" {
		parts = append(parts, "Current emotional state: "+string(rc.CurrentEmotionalState))
	}
	if rc.SessionType != "" {
		parts = append(parts, "Session: "+rc.SessionType)
	}
	if rc.RideType != "" {
		parts = append(parts, "Ride type: "+rc.RideType)
	}
	return strings.Join(parts, "\n")
}

func fallbackWelcome(rc model.RiderContext) string {
	greeting := "Welcome"
	if rc.Name != "" {
		greeting = "Welcome, " + rc.Name
	}

	var suggestion string
	switch rc.CurrentEmotionalState {
	case model.EmotionalStateAnxious, model.EmotionalStateNervous:
		suggestion = "Let's begin with a few rounds of 4-7-8 breathing to settle your nerves before we go further."
	case model.EmotionalStateConfident, model.EmotionalStateExcited:
		suggestion = "You're in a good place today. Let's channel that energy with a quick success visualization."
	default:
		suggestion = "Let's start with box breathing to focus your mind on the ride ahead."
	}
	return greeting + ". " + suggestion
}

// DefaultCompetitionPlan returns the pre-authored plan scaled to the days left
func DefaultCompetitionPlan(days int) *model.CompetitionPlan {
	phaseDays := func(share float64) int {
		d := int(float64(days) * share)
		if d < 1 {
			return 1
		}
		return d
	}

	return &model.CompetitionPlan{
		Phases: []model.PlanPhase{
			{
				Name:         "Mental Foundation",
				DurationDays: phaseDays(0.4),
				Tasks: []string{
					"Daily breathing exercises (10 minutes)",
					"Visualization practice (15 minutes)",
					"Positive affirmation sessions",
					"Confidence building exercises",
				},
			},
			{
				Name:         "Skill Refinement",
				DurationDays: phaseDays(0.4),
				Tasks: []string{
					"Focus on weak areas identified in analysis",
					"Perfect competition routine",
					"Horse-rider synchronization work",
					"Pressure simulation exercises",
				},
			},
			{
				Name:         "Competition Readiness",
				DurationDays: phaseDays(0.2),
				Tasks: []string{
					"Competition environment simulation",
					"Peak performance preparation",
					"Final mental rehearsal",
					"Recovery and rest protocols",
				},
			},
		},
		DailyRoutine: []model.RoutineItem{
			{Time: "Morning", Activity: "10-minute meditation", DurationMinutes: 10},
			{Time: "Pre-ride", Activity: "Emotional assessment & breathing", DurationMinutes: 15},
			{Time: "Post-ride", Activity: "Performance review & visualization", DurationMinutes: 20},
			{Time: "Evening", Activity: "Relaxation & positive imagery", DurationMinutes: 15},
		},
		MentalStrategies: []string{
			"Focus on process goals rather than outcome goals",
			"Develop competition day routine and stick to it",
			"Practice positive self-talk and error recovery",
			"Use imagery to rehearse successful performances",
		},
		EmergencyStrategies: []string{
			"Emergency breathing protocol (4-7-8 technique)",
			"Grounding exercises for overwhelming anxiety",
			"Quick confidence boosters and positive anchors",
			"Support team contact protocol",
		},
	}
}
