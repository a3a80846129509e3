package game

// Hooks receives the session signals. Calls happen synchronously inside Step.
type Hooks interface {
	OnCreatureDeath(creature AgentView)
	OnPlayerDeath(livesLeft int)
	OnPlayerWin()
	OnFoodConsumed(food FoodView, consumer AgentView)
}

// NopHooks ignores every signal. Embed it to implement a subset.
type NopHooks struct{}

func (NopHooks) OnCreatureDeath(AgentView)          {}
func (NopHooks) OnPlayerDeath(int)                  {}
func (NopHooks) OnPlayerWin()                       {}
func (NopHooks) OnFoodConsumed(FoodView, AgentView) {}
