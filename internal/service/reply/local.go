package reply

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/smartfarm/assistant/backend/internal/analysis/topic"
)

var templates = map[topic.Label]string{
	topic.Irrigation: "Based on your current soil moisture levels at 58%, I recommend watering Zone 3 in about 6 hours. " +
		"The optimal soil moisture for your crops should be between 60-70%. Consider installing drip irrigation for more efficient water usage.",
	topic.Crop: "Given your current soil conditions (pH 6.8) and the upcoming weather forecast, I recommend planting lettuce or spinach. " +
		"These leafy greens thrive in your current temperature range of 28°C and will be ready to harvest before the next major weather change.",
	topic.Pest: "For preventive pest management, I suggest regular scouting and maintaining proper plant spacing for air circulation. " +
		"Your current temperature and humidity levels are moderate, which reduces disease pressure. Consider companion planting with marigolds to naturally deter pests.",
	topic.Fertilizer: "Your nutrient levels show Nitrogen at 82% and Phosphorus at 76%, which are good levels. " +
		"However, consider adding organic compost to maintain soil health. For the upcoming growing season, a balanced 10-10-10 fertilizer applied every 3-4 weeks should be sufficient.",
	topic.Weather: "The weather forecast shows 12mm of rainfall expected in 2 days. This is beneficial for your crops and will help maintain soil moisture. " +
		"After the rain, check for any standing water and ensure proper drainage to prevent root rot.",
	topic.Temperature: "The current temperature of 28°C is optimal for most warm-season crops. " +
		"However, during peak summer, consider using shade cloth or row covers to protect sensitive plants. Monitor for heat stress symptoms like wilting during the hottest parts of the day.",
	topic.Yield: "Your yield outlook is strong:\n\n" +
		"- **Lettuce** is tracking at 92% of target\n" +
		"- **Tomatoes** at 85%\n" +
		"- **Carrots** trail at 68%\n\n" +
		"To lift productivity, thin the carrot beds and keep soil moisture steady through root development.",
	topic.Cost: "Here is where you can save this season:\n\n" +
		"1. **Water**: reducing irrigation by 20% ahead of expected rainfall saves about 150L per day.\n" +
		"2. **Fertilizer**: switching to compost plus a balanced 10-10-10 mix cuts input costs.\n" +
		"3. **Energy**: run pumps in the early morning when evaporation is lowest.",
}

const generalTemplate = "That's an interesting question! Based on your farm's current conditions and data, I'd be happy to provide more specific guidance. " +
	"Could you tell me more details about what you're trying to achieve? " +
	"I can help with irrigation scheduling, crop selection, pest management, soil health, and weather planning."

const generalFarmTemplate = "That's an interesting question! Based on the current conditions and data for farm %s, I'd be happy to provide more specific guidance. " +
	"Could you tell me more details about what you're trying to achieve? " +
	"I can help with irrigation scheduling, crop selection, pest management, soil health, and weather planning."

// Local answers from a fixed table of templates chosen by keyword.
type Local struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// LocalOption configures a Local resolver.
type LocalOption func(*Local)

// WithDelay makes every reply wait a random duration in [min, max] before returning.
func WithDelay(min, max time.Duration) LocalOption {
	return func(l *Local) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		l.minDelay, l.maxDelay = min, max
	}
}

// NewLocal returns a keyword resolver. Without options it answers immediately.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reply returns the template for text. The result depends only on its inputs.
func (l *Local) Reply(text, farmID string) string {
	if tmpl, ok := templates[topic.Classify(text)]; ok {
		return tmpl
	}
	if farmID != "" {
		return fmt.Sprintf(generalFarmTemplate, farmID)
	}
	return generalTemplate
}

// Resolve waits out the configured thinking delay, then returns Reply.
func (l *Local) Resolve(ctx context.Context, req Request) string {
	if d := l.delay(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		timer.Stop()
	}
	return l.Reply(req.Text, req.FarmID)
}

func (l *Local) delay() time.Duration {
	if l.maxDelay <= 0 {
		return 0
	}
	spread := l.maxDelay - l.minDelay
	if spread <= 0 {
		return l.minDelay
	}
	return l.minDelay + time.Duration(rand.Int63n(int64(spread)+1))
}
