package game

import "fmt"

// LevelReward is the nickname and medal shown when a level is reached.
type LevelReward struct {
	Nickname string
	Message  string
	Medal    string
}

var levelRewards = map[int]LevelReward{
	1:  {Nickname: "Novice Adventurer", Message: "Welcome to your quest! Every journey begins with a single step.", Medal: "🥉"},
	2:  {Nickname: "Task Apprentice", Message: "You're getting the hang of this! Keep building those productive habits.", Medal: "🥉"},
	3:  {Nickname: "Productivity Warrior", Message: "Look at you go! Your dedication is starting to show real results.", Medal: "🥈"},
	4:  {Nickname: "Quest Champion", Message: "Impressive progress! You're developing serious productivity skills.", Medal: "🥈"},
	5:  {Nickname: "Habit Master", Message: "Outstanding! You've proven you can stick to your goals consistently.", Medal: "🥇"},
	6:  {Nickname: "Efficiency Expert", Message: "Wow! Your productivity game is getting seriously strong!", Medal: "🥇"},
	7:  {Nickname: "Goal Crusher", Message: "Incredible! You're absolutely crushing your objectives!", Medal: "🏆"},
	8:  {Nickname: "Achievement Legend", Message: "Legendary status! Your commitment is truly inspiring!", Medal: "🏆"},
	9:  {Nickname: "Productivity Titan", Message: "Titan level achieved! You're operating at peak performance!", Medal: "🏆"},
	10: {Nickname: "Grand Master", Message: "GRAND MASTER! You've reached the pinnacle of productivity excellence!", Medal: "👑"},
	11: {Nickname: "Productivity Sage", Message: "Beyond mastery! You're now a true sage of productivity!", Medal: "👑"},
	12: {Nickname: "Ultimate Champion", Message: "ULTIMATE CHAMPION! Your dedication knows no bounds!", Medal: "💎"},
	15: {Nickname: "Productivity God", Message: "DIVINE LEVEL! You've transcended ordinary productivity!", Medal: "⭐"},
	20: {Nickname: "Legendary Being", Message: "LEGENDARY! You are the stuff of productivity legends!", Medal: "🌟"},
}

// LevelRewardFor returns the reward for the highest defined band at or below
// the given level.
func LevelRewardFor(level int) LevelReward {
	best := 1
	for l := range levelRewards {
		if level >= l && l > best {
			best = l
		}
	}
	return levelRewards[best]
}

var streakMessages = map[int]string{
	3:   "🔥 3-day streak! You're building momentum!",
	7:   "🌟 Week-long streak! You're on fire!",
	14:  "💫 Two weeks strong! Unstoppable!",
	21:  "🔄 21 days! Habits are forming!",
	30:  "📅 30-day streak! You're a habit machine!",
	45:  "🎯 45 days! You're in the zone!",
	50:  "👑 50-day streak! Absolutely incredible!",
	60:  "💎 60 days! Diamond dedication!",
	66:  "👑 66-day streak! Scientifically proven habit formation!",
	100: "🏆 100-day streak! LEGENDARY dedication!",
}

// StreakMessage returns the milestone message for a streak length.
func StreakMessage(streak int) string {
	if msg, ok := streakMessages[streak]; ok {
		return msg
	}
	return fmt.Sprintf("🔥 %d-day streak! Keep the momentum going!", streak)
}
