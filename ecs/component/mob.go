package component

// Mob marks a living creature.
type Mob struct {
	Alive bool
}

var MobComponent = NewComponent[Mob]()
