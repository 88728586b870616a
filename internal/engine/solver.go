package engine

import (
	"context"
	"math/rand"
	"time"
)

// Status - исход вызова решателя.
type Status int

const (
	StatusInfeasible Status = iota
	StatusOptimal
	StatusFeasible
	StatusTimeLimit
)

// Solution - назначение преподавателей на секции, прошедшее все жёсткие
// ограничения. Секции индексируются так же, как в Model.Sections.
type Solution struct {
	TeacherOf []int
}

// Solver ищет назначение, максимизирующее Model.Score в пределах budget.
type Solver interface {
	Solve(ctx context.Context, model *Model, budget time.Duration) (Status, *Solution, error)
}

// CompositeSolver выбирает между точным и локальным поиском по размеру
// задачи: ExactSolver гарантирует оптимум, но его дерево перебора растёт
// экспоненциально с числом секций, поэтому он годится только для малых
// инстансов. Большие инстансы уходят в LocalSearchSolver.
type CompositeSolver struct {
	Exact          *ExactSolver
	Local          *LocalSearchSolver
	ExactThreshold int
}

func NewCompositeSolver() *CompositeSolver {
	return &CompositeSolver{
		Exact:          &ExactSolver{NodeLimit: 2_000_000},
		Local:          &LocalSearchSolver{Restarts: 64},
		ExactThreshold: 12,
	}
}

func (s *CompositeSolver) Solve(ctx context.Context, model *Model, budget time.Duration) (Status, *Solution, error) {
	if len(model.Sections) <= s.ExactThreshold {
		return s.Exact.Solve(ctx, model, budget)
	}
	return s.Local.Solve(ctx, model, budget)
}

// ExactSolver - перебор с возвратом по секциям в порядке индекса, с отсечением
// по уже нарушенным ограничениям. Перебирает всё
// дерево и запоминает наилучшее по Score полное назначение, поэтому, если он
// завершается до истечения budget и NodeLimit, результат оптимален.
type ExactSolver struct {
	NodeLimit int
}

func (s *ExactSolver) Solve(ctx context.Context, model *Model, budget time.Duration) (Status, *Solution, error) {
	deadline := time.Now().Add(budget)
	nodeLimit := s.NodeLimit
	if nodeLimit <= 0 {
		nodeLimit = 2_000_000
	}

	var best Assignment
	bestScore := -1 << 62
	found := false
	nodes := 0
	timedOut := false

	assign := newUnassigned(len(model.Sections))

	var backtrack func(i int) bool
	backtrack = func(i int) bool {
		nodes++
		if nodes > nodeLimit {
			timedOut = true
			return false
		}
		if nodes%2048 == 0 {
			if ctx.Err() != nil || time.Now().After(deadline) {
				timedOut = true
				return false
			}
		}

		if i == len(model.Sections) {
			score := model.Score(assign)
			if !found || score > bestScore {
				found = true
				bestScore = score
				best = assign.clone()
			}
			return true
		}

		for _, teacherIdx := range model.Candidates[i] {
			if !model.CanAssign(assign, i, teacherIdx) {
				continue
			}
			assign.TeacherOf[i] = teacherIdx
			if !backtrack(i + 1) {
				assign.TeacherOf[i] = -1
				return false
			}
			assign.TeacherOf[i] = -1
		}
		return true
	}

	completedSearch := backtrack(0)

	if found {
		if completedSearch {
			return StatusOptimal, &Solution{TeacherOf: best.TeacherOf}, nil
		}
		return StatusFeasible, &Solution{TeacherOf: best.TeacherOf}, nil
	}
	if timedOut {
		return StatusTimeLimit, nil, nil
	}
	return StatusInfeasible, nil, nil
}

// LocalSearchSolver строит начальное допустимое назначение жадным
// построением со случайным порядком и ограниченным числом перезапусков
// (репарация при тупике), затем улучшает его восхождением по searchScore в
// пределах budget. Жёсткие ограничения сохраняются на каждом шаге поиска,
// а не штрафуются.
type LocalSearchSolver struct {
	Restarts int
	Rand     *rand.Rand
}

func (s *LocalSearchSolver) Solve(ctx context.Context, model *Model, budget time.Duration) (Status, *Solution, error) {
	deadline := time.Now().Add(budget)
	rng := s.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	restarts := s.Restarts
	if restarts <= 0 {
		restarts = 64
	}

	var initial Assignment
	ok := false
	for attempt := 0; attempt < restarts; attempt++ {
		if ctx.Err() != nil || time.Now().After(deadline) {
			return StatusTimeLimit, nil, nil
		}
		initial, ok = s.greedyConstruct(model, rng)
		if ok {
			break
		}
	}
	if !ok {
		if time.Now().After(deadline) {
			return StatusTimeLimit, nil, nil
		}
		return StatusInfeasible, nil, nil
	}

	best := initial
	bestScore := model.searchScore(best)

	current := best.clone()
	currentScore := bestScore

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			break
		}
		i := rng.Intn(len(model.Sections))
		candidates := model.Candidates[i]
		if len(candidates) < 2 {
			continue
		}
		newTeacher := candidates[rng.Intn(len(candidates))]
		oldTeacher := current.TeacherOf[i]
		if newTeacher == oldTeacher {
			continue
		}

		current.TeacherOf[i] = -1
		if !model.CanAssign(current, i, newTeacher) {
			current.TeacherOf[i] = oldTeacher
			continue
		}
		current.TeacherOf[i] = newTeacher
		newScore := model.searchScore(current)

		if newScore >= currentScore {
			currentScore = newScore
			if newScore > bestScore {
				bestScore = newScore
				best = current.clone()
			}
		} else {
			current.TeacherOf[i] = oldTeacher
		}
	}

	return StatusFeasible, &Solution{TeacherOf: best.TeacherOf}, nil
}

// greedyConstruct назначает секции в случайном порядке, на каждом шаге
// выбирая случайного допустимого кандидата; если секция не находит ни
// одного допустимого кандидата, построение считается неудавшимся (caller
// повторяет попытку с новым порядком).
func (s *LocalSearchSolver) greedyConstruct(model *Model, rng *rand.Rand) (Assignment, bool) {
	order := make([]int, len(model.Sections))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	assign := newUnassigned(len(model.Sections))

	for _, i := range order {
		candidates := make([]int, len(model.Candidates[i]))
		copy(candidates, model.Candidates[i])
		rng.Shuffle(len(candidates), func(a, b int) { candidates[a], candidates[b] = candidates[b], candidates[a] })

		placed := false
		for _, teacherIdx := range candidates {
			if model.CanAssign(assign, i, teacherIdx) {
				assign.TeacherOf[i] = teacherIdx
				placed = true
				break
			}
		}
		if !placed {
			return assign, false
		}
	}
	return assign, true
}
