package events

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
)

const (
	MinSeverity = 1
	MaxSeverity = 5
)

// TeamState is the view of team holdings events read and damage. Destroy and
// Remove return how many units were actually taken.
type TeamState interface {
	Teams() []string
	HasTeam(team string) bool
	BuildingCount(team string, kind economy.BuildingKind) int
	ResourceAmount(team string, res economy.ResourceType) int
	DestroyBuildings(team string, kind economy.BuildingKind, n int) int
	RemoveResource(team string, res economy.ResourceType, n int) int
}

// Trigger asks for a new event.
type Trigger struct {
	Type       EventType `json:"type"`
	Severity   int       `json:"severity"`
	TargetTeam string    `json:"target_team,omitempty"`
}

// Engine tracks the events of one game. It is not safe for concurrent use;
// callers serialize access.
type Engine struct {
	catalog    *Catalog
	difficulty economy.Difficulty
	teams      TeamState
	rng        economy.RandomSource

	nextID  int
	active  []*Instance
	history []*Instance
}

type EngineOpt func(*Engine)

func WithCatalog(c *Catalog) EngineOpt {
	return func(e *Engine) {
		e.catalog = c
	}
}

func WithRandomSource(r economy.RandomSource) EngineOpt {
	return func(e *Engine) {
		e.rng = r
	}
}

func NewEngine(difficulty economy.Difficulty, teams TeamState, opts ...EngineOpt) *Engine {
	e := &Engine{
		catalog:    DefaultCatalog(),
		difficulty: difficulty,
		teams:      teams,
		rng:        economy.DefaultRNG(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Trigger validates req, applies any immediate effects and records the new
// instance. Nothing is mutated when validation fails.
func (e *Engine) Trigger(req Trigger, now time.Time) (Change, error) {
	if !req.Type.Valid() {
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownEventType, req.Type)
	}
	if req.Severity < MinSeverity || req.Severity > MaxSeverity {
		return Change{}, fmt.Errorf("%w: got %d", ErrInvalidSeverity, req.Severity)
	}

	switch req.Type {
	case TypeAutomationBreakthrough:
		if req.TargetTeam == "" {
			return Change{}, ErrTargetRequired
		}
		if !e.teams.HasTeam(req.TargetTeam) {
			return Change{}, fmt.Errorf("%w: %q", ErrUnknownTeam, req.TargetTeam)
		}
	case TypePlague:
		if len(e.teams.Teams()) == 0 {
			return Change{}, ErrNoTeams
		}
	}

	e.nextID++
	inst := &Instance{
		ID:                 e.nextID,
		Type:               req.Type,
		Category:           req.Type.Category(),
		Severity:           req.Severity,
		DifficultyModifier: e.difficulty.Modifier(),
		Status:             StatusActive,
		TriggeredAt:        now,
	}

	rule := e.catalog.Common(req.Type).Price
	inst.PriceEffect = PriceEffect{
		Resource: economy.ResourceType(rule.Resource),
		Bias:     rule.PerSeverity * float64(req.Severity) * inst.DifficultyModifier,
	}

	switch req.Type {
	case TypeEarthquake:
		e.earthquake(inst, now)
	case TypeFire:
		e.fire(inst, now)
	case TypeDrought:
		e.drought(inst)
	case TypePlague:
		e.plague(inst)
	case TypeBlizzard:
		e.blizzard(inst)
	case TypeTornado:
		e.tornado(inst, now)
	case TypeEconomicRecession:
		e.recession(inst, now)
	case TypeAutomationBreakthrough:
		e.automation(inst, req.TargetTeam)
	}

	if inst.Status.Terminal() {
		e.history = append(e.history, inst)
	} else {
		e.active = append(e.active, inst)
	}

	return Change{Kind: ChangeTriggered, Instance: inst.Clone(), Team: req.TargetTeam}, nil
}

// AdvanceCycle counts down every cycle-tracked instance and ends those that
// reach zero. Plagues are not cycle-tracked.
func (e *Engine) AdvanceCycle(now time.Time) []Change {
	var changes []Change

	for _, inst := range e.active {
		kind, ended := e.advance(inst, now)
		if !ended {
			continue
		}
		changes = append(changes, Change{Kind: kind, Instance: inst.Clone()})
	}

	e.retire()
	return changes
}

func (e *Engine) advance(inst *Instance, now time.Time) (ChangeKind, bool) {
	switch p := inst.Payload.(type) {
	case *PlaguePayload:
		return "", false
	case *AutomationPayload:
		if inst.countdown() > 0 {
			return "", false
		}
		inst.end(StatusExpired, now)
		if !p.Paid {
			p.Lapsed = true
			return ChangeLapsed, true
		}
		return ChangeExpired, true
	case *DroughtPayload, *BlizzardPayload, *RecessionPayload:
		if inst.countdown() > 0 {
			return "", false
		}
		inst.end(StatusExpired, now)
		return ChangeExpired, true
	default:
		// Instant events never stay active.
		inst.end(StatusExpired, now)
		return ChangeExpired, true
	}
}

// Cure removes team from every active plague infecting it, charging the cure
// cost of each in medical goods. A plague with no infected teams left ends as
// cured.
func (e *Engine) Cure(team string, now time.Time) ([]Change, error) {
	var plagues []*Instance
	cost := 0
	for _, inst := range e.active {
		if p, ok := inst.Payload.(*PlaguePayload); ok && slices.Contains(p.Infected, team) {
			plagues = append(plagues, inst)
			cost += p.CureCost
		}
	}
	if len(plagues) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotInfected, team)
	}

	if err := e.charge(team, economy.ResourceMedicalGoods, cost); err != nil {
		return nil, fmt.Errorf("curing %q: %w", team, err)
	}

	changes := make([]Change, 0, len(plagues))
	for _, inst := range plagues {
		p := inst.Payload.(*PlaguePayload)
		p.Infected = slices.DeleteFunc(p.Infected, func(t string) bool { return t == team })
		p.Cured = append(p.Cured, team)

		kind := ChangeTeamCured
		if len(p.Infected) == 0 {
			inst.end(StatusCured, now)
			kind = ChangeCured
		}
		changes = append(changes, Change{Kind: kind, Instance: inst.Clone(), Team: team})
	}

	e.retire()
	return changes, nil
}

// Pay settles the pending automation breakthrough offered to team, charging
// electrical goods and starting its boost.
func (e *Engine) Pay(team string, now time.Time) (Change, error) {
	for _, inst := range e.active {
		p, ok := inst.Payload.(*AutomationPayload)
		if !ok || p.Paid || p.TargetTeam != team {
			continue
		}

		if err := e.charge(team, economy.ResourceElectricalGoods, p.PaymentCost); err != nil {
			return Change{}, fmt.Errorf("paying for event %d: %w", inst.ID, err)
		}

		p.Paid = true
		remaining := e.catalog.Automation.DurationCycles
		if inst.DurationCycles != nil {
			remaining = *inst.DurationCycles
		}
		inst.CyclesRemaining = &remaining

		return Change{Kind: ChangeActivated, Instance: inst.Clone(), Team: team}, nil
	}

	return Change{}, fmt.Errorf("%w: %q", ErrNoPendingPayment, team)
}

// Active returns copies of the instances still in play, oldest first.
func (e *Engine) Active() []*Instance {
	return cloneAll(e.active)
}

// History returns copies of the ended instances in the order they ended.
func (e *Engine) History() []*Instance {
	return cloneAll(e.history)
}

// Instance returns a copy of the instance with the given id.
func (e *Engine) Instance(id int) (*Instance, bool) {
	for _, set := range [][]*Instance{e.active, e.history} {
		for _, inst := range set {
			if inst.ID == id {
				return inst.Clone(), true
			}
		}
	}
	return nil, false
}

func (e *Engine) charge(team string, res economy.ResourceType, cost int) error {
	if cost <= 0 {
		return nil
	}
	if have := e.teams.ResourceAmount(team, res); have < cost {
		return fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientResources, cost, res, have)
	}
	e.teams.RemoveResource(team, res, cost)
	return nil
}

func (e *Engine) retire() {
	e.active = slices.DeleteFunc(e.active, func(inst *Instance) bool {
		if inst.Status.Terminal() {
			e.history = append(e.history, inst)
			return true
		}
		return false
	})
}

func (e *Engine) teamList() []string {
	teams := slices.Clone(e.teams.Teams())
	slices.Sort(teams)
	return teams
}

func (e *Engine) earthquake(inst *Instance, now time.Time) {
	params := e.catalog.Earthquake
	p := &EarthquakePayload{}

	for _, team := range e.teamList() {
		mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingInfrastructure), params.MitigationPerBuilding)
		n := economy.FloorCount(economy.Effect(params.BuildingsPerSeverity, inst.Severity, inst.DifficultyModifier, mit))
		n = min(n, params.MaxPerTeam)

		if destroyed := e.destroyRandom(team, n); len(destroyed) > 0 {
			p.Losses = append(p.Losses, BuildingLoss{Team: team, Destroyed: destroyed})
		}
	}

	inst.Payload = p
	inst.end(StatusExpired, now)
}

// destroyRandom destroys up to n buildings of team, each picked uniformly from
// the buildings it still owns.
func (e *Engine) destroyRandom(team string, n int) map[economy.BuildingKind]int {
	owned := map[economy.BuildingKind]int{}
	total := 0
	for _, kind := range economy.Buildings {
		c := e.teams.BuildingCount(team, kind)
		if c > 0 {
			owned[kind] = c
			total += c
		}
	}

	destroyed := map[economy.BuildingKind]int{}
	for range n {
		if total == 0 {
			break
		}

		r := e.rng.IntN(total)
		var pick economy.BuildingKind
		for _, kind := range economy.Buildings {
			if r < owned[kind] {
				pick = kind
				break
			}
			r -= owned[kind]
		}

		owned[pick]--
		total--
		if got := e.teams.DestroyBuildings(team, pick, 1); got > 0 {
			destroyed[pick] += got
		}
	}

	return destroyed
}

func (e *Engine) fire(inst *Instance, now time.Time) {
	params := e.catalog.Fire
	p := &FirePayload{}

	for _, team := range e.teamList() {
		factories := e.teams.BuildingCount(team, economy.BuildingElectricalFactory)
		if factories == 0 {
			continue
		}

		mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingHospital), params.MitigationPerBuilding)
		frac := economy.Clamp01(economy.Effect(params.DestroyPerSeverity, inst.Severity, inst.DifficultyModifier, mit))
		n := economy.FloorCount(float64(factories) * frac)
		if n == 0 {
			continue
		}

		if got := e.teams.DestroyBuildings(team, economy.BuildingElectricalFactory, n); got > 0 {
			p.Losses = append(p.Losses, BuildingLoss{
				Team:      team,
				Destroyed: map[economy.BuildingKind]int{economy.BuildingElectricalFactory: got},
			})
		}
	}

	inst.Payload = p
	inst.end(StatusExpired, now)
}

func (e *Engine) drought(inst *Instance) {
	params := e.catalog.Drought
	inst.Payload = &DroughtPayload{
		OutputMultiplier: economy.Clamp01(params.BaseOutput + float64(3-inst.Severity)*params.SeverityStep),
	}
	inst.track(params.DurationCycles)
}

func (e *Engine) plague(inst *Instance) {
	params := e.catalog.Plague
	teams := e.teamList()

	n := params.MinInfected
	if spread := params.MaxInfected - params.MinInfected; spread > 0 {
		n += e.rng.IntN(spread + 1)
	}
	n = min(n, len(teams))

	for i := range n {
		j := i + e.rng.IntN(len(teams)-i)
		teams[i], teams[j] = teams[j], teams[i]
	}
	infected := teams[:n]
	slices.Sort(infected)

	inst.Payload = &PlaguePayload{
		Infected: infected,
		Cured:    []string{},
		CureCost: int(math.Round(params.CureCostPerSeverity * float64(inst.Severity) * inst.DifficultyModifier)),
	}
}

func (e *Engine) blizzard(inst *Instance) {
	params := e.catalog.Blizzard
	inst.Payload = &BlizzardPayload{
		FoodTaxMultiplier: params.FoodTaxPerSeverity * float64(inst.Severity) * inst.DifficultyModifier,
		ProductionPenalty: economy.Clamp01(params.ProductionPenalty.For(e.difficulty)),
	}
	inst.track(params.DurationCycles)
}

func (e *Engine) tornado(inst *Instance, now time.Time) {
	params := e.catalog.Tornado
	p := &TornadoPayload{}

	for _, team := range e.teamList() {
		mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingInfrastructure), params.MitigationPerBuilding)
		frac := economy.Clamp01(economy.Effect(params.LossPerSeverity, inst.Severity, inst.DifficultyModifier, mit))

		lost := map[economy.ResourceType]int{}
		for _, res := range economy.Resources {
			n := economy.FloorCount(float64(e.teams.ResourceAmount(team, res)) * frac)
			if n == 0 {
				continue
			}
			if got := e.teams.RemoveResource(team, res, n); got > 0 {
				lost[res] = got
			}
		}

		if len(lost) > 0 {
			p.Losses = append(p.Losses, ResourceLoss{Team: team, Lost: lost})
		}
	}

	inst.Payload = p
	inst.end(StatusExpired, now)
}

func (e *Engine) recession(inst *Instance, now time.Time) {
	params := e.catalog.Recession
	inst.Payload = &RecessionPayload{
		PriceBias:            inst.PriceEffect.Bias,
		BuildingCostIncrease: params.BuildingCostPerSeverity * float64(inst.Severity) * inst.DifficultyModifier,
	}

	cycles := max(0, params.BaseDurationCycles+inst.Severity-3)
	inst.track(cycles)
	if cycles == 0 {
		inst.end(StatusExpired, now)
	}
}

func (e *Engine) automation(inst *Instance, target string) {
	params := e.catalog.Automation
	inst.Payload = &AutomationPayload{
		TargetTeam:       target,
		PaymentCost:      int(math.Round(params.PaymentPerDifficulty * inst.DifficultyModifier)),
		OutputMultiplier: 1 + params.BoostPerSeverity*float64(inst.Severity)*inst.DifficultyModifier,
	}

	duration := params.DurationCycles
	deadline := params.PaymentDeadline
	inst.DurationCycles = &duration
	inst.CyclesRemaining = &deadline
}

func (i *Instance) track(cycles int) {
	duration, remaining := cycles, cycles
	i.DurationCycles = &duration
	i.CyclesRemaining = &remaining
}

// countdown decrements the remaining cycles and returns what is left.
func (i *Instance) countdown() int {
	if i.CyclesRemaining == nil {
		return 0
	}
	n := max(0, *i.CyclesRemaining-1)
	i.CyclesRemaining = &n
	return n
}

func cloneAll(in []*Instance) []*Instance {
	out := make([]*Instance, len(in))
	for i, inst := range in {
		out[i] = inst.Clone()
	}
	return out
}
