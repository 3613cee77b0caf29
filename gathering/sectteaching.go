package gathering

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/effects"
	"cultivation-world-simulator/world"
)

// SectTeaching is the example gathering from spec §4.9: picks a sect
// weighted by eligibility, designates its highest-cultivation living
// member as teacher and the rest as students, grants each student
// experience proportional to their next-level requirement, and with base
// probability has a student adopt the teacher's technique.
type SectTeaching struct {
	rng               *rand.Rand
	lookup            effects.StaticLookup
	actions           *action.Registry
	experienceLowPct  float64
	experienceHighPct float64
	adoptionBaseProb  float64

	pendingTeacher  *world.Agent
	pendingStudents []*world.Agent
}

// NewSectTeaching returns a SectTeaching gathering. actions is consulted
// to exclude members whose current action declares allow_gathering=false
// (spec §4.9 "participants whose current action has allow_gathering=false
// are excluded"). experienceLowPct/experienceHighPct bound the 10-30%
// next-level-requirement grant; adoptionBaseProb is the base chance a
// student adopts the teacher's technique.
func NewSectTeaching(lookup effects.StaticLookup, actions *action.Registry, experienceLowPct, experienceHighPct, adoptionBaseProb float64) *SectTeaching {
	return &SectTeaching{
		rng:               rand.New(rand.NewPCG(0, 0)),
		lookup:            lookup,
		actions:           actions,
		experienceLowPct:  experienceLowPct,
		experienceHighPct: experienceHighPct,
		adoptionBaseProb:  adoptionBaseProb,
	}
}

func (s *SectTeaching) Name() string { return "sect_teaching" }

// IsStart groups living agents by sect and, if any sect has at least two
// members, weighted-picks one sect to teach this tick (spec §4.9 "picks a
// sect weighted by eligibility"). Eligibility weight here is member count;
// a richer weighting (e.g. sect prosperity) is left for a future static
// data source (spec §1 out of scope).
func (s *SectTeaching) IsStart(w *world.World, _ int) bool {
	sect, ok := s.pickEligibleSect(w)
	if !ok {
		return false
	}
	s.prepare(w, sect)
	return s.pendingTeacher != nil && len(s.pendingStudents) > 0
}

func (s *SectTeaching) pickEligibleSect(w *world.World) (world.SectID, bool) {
	counts := make(map[world.SectID]int)
	for _, a := range w.AliveAgents() {
		if a.SectID != nil {
			counts[*a.SectID]++
		}
	}

	var candidates []world.WeightedChoice[world.SectID]
	for sect, count := range counts {
		if count >= 2 {
			candidates = append(candidates, world.WeightedChoice[world.SectID]{Item: sect, Weight: float64(count)})
		}
	}
	return world.Pick(candidates, s.rng.Float64())
}

func (s *SectTeaching) prepare(w *world.World, sect world.SectID) {
	var members []*world.Agent
	for _, a := range w.AliveAgents() {
		if a.SectID != nil && *a.SectID == sect {
			members = append(members, a)
		}
	}
	members = RunEligible(members, s.actions)
	if len(members) < 2 {
		s.pendingTeacher, s.pendingStudents = nil, nil
		return
	}

	teacher := members[0]
	for _, m := range members[1:] {
		if m.Realm > teacher.Realm {
			teacher = m
		}
	}

	students := make([]*world.Agent, 0, len(members)-1)
	for _, m := range members {
		if m.ID != teacher.ID {
			students = append(students, m)
		}
	}

	s.pendingTeacher = teacher
	s.pendingStudents = students
}

// RelatedAgents returns the teacher plus all students drawn into this
// tick's teaching session.
func (s *SectTeaching) RelatedAgents(*world.World) []*world.Agent {
	out := make([]*world.Agent, 0, len(s.pendingStudents)+1)
	if s.pendingTeacher != nil {
		out = append(out, s.pendingTeacher)
	}
	return append(out, s.pendingStudents...)
}

func (s *SectTeaching) Info(*world.World) string {
	if s.pendingTeacher == nil {
		return "no sect teaching pending"
	}
	return fmt.Sprintf("%s teaches %d sect members", s.pendingTeacher.Name, len(s.pendingStudents))
}

// Execute grants experience to every student and rolls technique adoption,
// recomputing effects for any agent that changes (spec §4.11 cache
// invalidation).
func (s *SectTeaching) Execute(_ context.Context, w *world.World, clockNow int) ([]world.Event, error) {
	if s.pendingTeacher == nil {
		return nil, nil
	}
	teacher := s.pendingTeacher
	students := s.pendingStudents
	defer func() { s.pendingTeacher, s.pendingStudents = nil, nil }()

	events := make([]world.Event, 0, len(students)+1)
	adoptedCount := 0
	for _, student := range students {
		pct := s.experienceLowPct + s.rng.Float64()*(s.experienceHighPct-s.experienceLowPct)
		grant := int(float64(student.NextLevelRequirement()) * pct)
		student.Experience += grant

		content := fmt.Sprintf("%s gains insight from %s's teaching, advancing cultivation", student.Name, teacher.Name)
		related := []world.AgentID{student.ID, teacher.ID}

		if teacher.Inventory.Technique != nil && s.rng.Float64() < s.adoptionBaseProb {
			technique := *teacher.Inventory.Technique
			student.Inventory.Technique = &technique
			student.InvalidateEffects()
			effects.EffectiveEffects(student, s.lookup) // warm the cache against the newly adopted technique
			content = fmt.Sprintf("%s gains insight from %s's teaching and adopts their technique", student.Name, teacher.Name)
			adoptedCount++
		}

		events = append(events, world.Event{MonthStamp: clockNow, Content: content, RelatedAgentIDs: related})
	}

	summary := fmt.Sprintf("%s's sect teaching session concludes: %d students advanced, %d adopted the technique", teacher.Name, len(students), adoptedCount)
	summaryRelated := append([]world.AgentID{teacher.ID}, agentIDs(students)...)
	events = append(events, world.Event{MonthStamp: clockNow, Content: summary, RelatedAgentIDs: summaryRelated, IsStory: true})

	return events, nil
}

func agentIDs(agents []*world.Agent) []world.AgentID {
	ids := make([]world.AgentID, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	return ids
}
