package types

// Closed enum types for fields that arrive as strings on the wire.
// Handlers validate with Valid() before anything is stored; unknown
// values never reach the collections.

type EventType string

const (
	EventTaskStart    EventType = "task_start"
	EventTaskComplete EventType = "task_complete"
	EventOverdue      EventType = "overdue"
	EventBreakStart   EventType = "break_start"
	EventBreakEnd     EventType = "break_end"
	EventHydrate      EventType = "hydrate"
	EventSleepLog     EventType = "sleep_log"
	EventFocusStart   EventType = "focus_start"
	EventFocusTick    EventType = "focus_tick"
	EventShopPurchase EventType = "shop_purchase"
	EventAppOpen      EventType = "app_open"
	EventAppIdle      EventType = "app_idle"
	EventEmotionText  EventType = "emotion_text"
	EventEmotionVoice EventType = "emotion_voice"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTaskStart, EventTaskComplete, EventOverdue, EventBreakStart,
		EventBreakEnd, EventHydrate, EventSleepLog, EventFocusStart,
		EventFocusTick, EventShopPurchase, EventAppOpen, EventAppIdle,
		EventEmotionText, EventEmotionVoice:
		return true
	}
	return false
}

type MoodLabel string

const (
	MoodPositive MoodLabel = "positive"
	MoodNeutral  MoodLabel = "neutral"
	MoodNegative MoodLabel = "negative"
	MoodAnxious  MoodLabel = "anxious"
	MoodTired    MoodLabel = "tired"
)

func (l MoodLabel) Valid() bool {
	switch l {
	case MoodPositive, MoodNeutral, MoodNegative, MoodAnxious, MoodTired:
		return true
	}
	return false
}

// NegativeMoodLabels are the labels counted into mood_negative_count.
var NegativeMoodLabels = []MoodLabel{MoodNegative, MoodAnxious, MoodTired}

type MoodSource string

const (
	MoodSourceUserText   MoodSource = "user_text"
	MoodSourceUserSlider MoodSource = "user_slider"
	MoodSourceVoiceInfer MoodSource = "voice_infer"
	MoodSourceTextInfer  MoodSource = "text_infer"
)

func (s MoodSource) Valid() bool {
	switch s {
	case MoodSourceUserText, MoodSourceUserSlider, MoodSourceVoiceInfer, MoodSourceTextInfer:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategoryAcademic TaskCategory = "Academic"
	CategoryPersonal TaskCategory = "Personal"
	CategoryPrivate  TaskCategory = "Private"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryPersonal, CategoryPrivate:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

type RiskWindow string

const (
	WindowDaily     RiskWindow = "daily"
	WindowRolling72 RiskWindow = "rolling_72h"
)

func (w RiskWindow) Valid() bool {
	switch w {
	case WindowDaily, WindowRolling72:
		return true
	}
	return false
}

// PetReaction is the discrete reaction shown by the companion pet UI.
type PetReaction string

const (
	ReactionConcern PetReaction = "concern"
	ReactionCheer   PetReaction = "cheer"
	ReactionIdle    PetReaction = "idle"
)

// PetMood is the persisted mood on the pet document, distinct from the
// per-score reaction.
type PetMood string

const (
	PetConcerned PetMood = "concerned"
	PetHappy     PetMood = "happy"
	PetIdle      PetMood = "idle"
)
