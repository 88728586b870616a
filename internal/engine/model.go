package engine

import (
	"schedule-engine/internal/models"

	"github.com/google/uuid"
)

// Assignment - одно полное или частичное решение: TeacherOf[i] - индекс
// преподавателя, назначенного на Sections[i], либо -1, если секция ещё не
// назначена (используется решателем во время поиска).
type Assignment struct {
	TeacherOf []int
}

func newUnassigned(n int) Assignment {
	a := Assignment{TeacherOf: make([]int, n)}
	for i := range a.TeacherOf {
		a.TeacherOf[i] = -1
	}
	return a
}

func (a Assignment) clone() Assignment {
	out := make([]int, len(a.TeacherOf))
	copy(out, a.TeacherOf)
	return Assignment{TeacherOf: out}
}

func (a Assignment) complete() bool {
	for _, t := range a.TeacherOf {
		if t < 0 {
			return false
		}
	}
	return true
}

// Model - модель CSP: набор секций,
// преподавателей, их допустимых пар (candidates) и параметров
// целевой функции. Часть слагаемых целевой функции (balance_*, pref_online_*)
// не зависит от назначения - время и модальность секции фиксируются на этапе
// Instantiate, решатель выбирает только преподавателя - поэтому они
// предвычисляются один раз и хранятся как константа structuralScore.
type Model struct {
	Sections   []models.Section
	Teachers   []models.Teacher
	Candidates [][]int
	Config     SchedulerConfig

	structuralScore int
	slotIndex       map[models.Slot]int // WeekdayHours hour -> позиция в каноническом списке
}

// BuildModel для каждой секции находит множество компетентных
// преподавателей (покрытие уже проверено Validate-ом, здесь оно
// переисчисляется как структура данных решателя). Пустой candidate set
// для секции возвращает NoCandidatesError - защита от пробела в валидаторе.
func BuildModel(sections []models.Section, teachers []models.Teacher, competencesOf map[uuid.UUID][]models.Subject, cfg SchedulerConfig) (*Model, error) {
	competent := make(map[uuid.UUID]map[uuid.UUID]bool, len(teachers))
	for _, teacher := range teachers {
		set := make(map[uuid.UUID]bool, len(competencesOf[teacher.ID]))
		for _, subject := range competencesOf[teacher.ID] {
			set[subject.ID] = true
		}
		competent[teacher.ID] = set
	}

	candidates := make([][]int, len(sections))
	for i, section := range sections {
		for ti, teacher := range teachers {
			if competent[teacher.ID][section.Subject.ID] {
				candidates[i] = append(candidates[i], ti)
			}
		}
		if len(candidates[i]) == 0 {
			return nil, &NoCandidatesError{SectionLabel: section.Label, SubjectLabel: section.Subject.Label()}
		}
	}

	m := &Model{
		Sections:   sections,
		Teachers:   teachers,
		Candidates: candidates,
		Config:     cfg,
	}
	m.slotIndex = make(map[models.Slot]int, len(cfg.WeekdayHours))
	for i, hour := range cfg.WeekdayHours {
		m.slotIndex[models.Slot{Pattern: models.PatternWeekday, StartHour: hour}] = i
	}
	m.structuralScore = m.computeStructuralScore()

	return m, nil
}

// CanAssign проверяет жёсткие ограничения (non-overlap, недельный и дневной
// потолки часов, разрыв модальности) для назначения teacherIdx на
// Sections[sectionIdx], при уже сделанных назначениях assign. Полное покрытие
// гарантируется формой Assignment: ровно один teacherIdx на каждую секцию
// при complete() == true.
func (m *Model) CanAssign(assign Assignment, sectionIdx, teacherIdx int) bool {
	section := m.Sections[sectionIdx]
	teacher := m.Teachers[teacherIdx]

	weeklyCount := 1 // сама секция, которую пытаемся назначить
	dailyCount := 0
	if section.Pattern() == models.PatternWeekday {
		dailyCount = 1
	}

	for other, ti := range assign.TeacherOf {
		if ti != teacherIdx || other == sectionIdx {
			continue
		}
		otherSection := m.Sections[other]

		// non-overlap: один слот, один преподаватель
		if otherSection.Slot() == section.Slot() {
			return false
		}

		weeklyCount++
		if otherSection.Pattern() == models.PatternWeekday {
			dailyCount++
		}

		// разрыв модальности: presential и online в один день у одного
		// преподавателя разрешены только через ровно один пустой слот
		// (слоты двухчасовые, значит зазор в 4 часа); смежные слоты
		// запрещены. Секция в промежуточном слоте сама образует смежную
		// смешанную пару с одним из концов и отсекается этой же проверкой.
		if section.Pattern() == models.PatternWeekday && otherSection.Pattern() == models.PatternWeekday &&
			otherSection.Modality != section.Modality {
			gap := otherSection.StartHour - section.StartHour
			if gap < 0 {
				gap = -gap
			}
			if gap != 4 {
				return false
			}
		}
	}

	// недельный потолок часов
	if weeklyCount*8 > teacher.MaxHoursWeek {
		return false
	}
	// дневной потолок часов, только для будних секций
	if section.Pattern() == models.PatternWeekday && dailyCount*2 > teacher.MaxHoursDay {
		return false
	}

	return true
}

// Score - полная целевая функция: структурные слагаемые (константа
// для данной модели) плюс зависящие от назначения.
func (m *Model) Score(assign Assignment) int {
	return m.structuralScore + m.searchScore(assign)
}

// searchScore - только те слагаемые целевой функции, на которые влияет выбор
// преподавателя; используется решателем как функция максимизации во время
// поиска, чтобы не пересчитывать неизменную часть на каждой итерации.
func (m *Model) searchScore(assign Assignment) int {
	w := m.Config.Weights
	consec := m.countConsecutive(assign)
	assigned := m.countAssignedTeachers(assign)
	virtualOnly := m.countVirtualOnlyTeachers(assign)
	return w.Consec*consec + w.Assigned*assigned - w.VirtualOnlyPenalty*virtualOnly
}

func (m *Model) countConsecutive(assign Assignment) int {
	n := len(m.Config.WeekdayHours)
	active := make(map[int][]bool, len(m.Teachers))

	for i, ti := range assign.TeacherOf {
		if ti < 0 {
			continue
		}
		section := m.Sections[i]
		if section.Pattern() != models.PatternWeekday {
			continue
		}
		slot, ok := m.slotIndex[section.Slot()]
		if !ok {
			continue
		}
		row, ok := active[ti]
		if !ok {
			row = make([]bool, n)
			active[ti] = row
		}
		row[slot] = true
	}

	consec := 0
	for _, row := range active {
		for i := 0; i+1 < n; i++ {
			if row[i] && row[i+1] {
				consec++
			}
		}
	}
	return consec
}

func (m *Model) countAssignedTeachers(assign Assignment) int {
	seen := map[int]bool{}
	for _, ti := range assign.TeacherOf {
		if ti >= 0 {
			seen[ti] = true
		}
	}
	return len(seen)
}

func (m *Model) countVirtualOnlyTeachers(assign Assignment) int {
	hasPresential := map[int]bool{}
	hasOnline := map[int]bool{}
	touched := map[int]bool{}

	for i, ti := range assign.TeacherOf {
		if ti < 0 {
			continue
		}
		touched[ti] = true
		if m.Sections[i].Modality == models.Presential {
			hasPresential[ti] = true
		} else {
			hasOnline[ti] = true
		}
	}

	count := 0
	for ti := range touched {
		if hasOnline[ti] && !hasPresential[ti] {
			count++
		}
	}
	return count
}

// computeStructuralScore считает balance_morning/balance_afternoon и
// pref_online_* - слагаемые, фиксированные уже на этапе Instantiate, так как
// час и модальность секции не меняются решателем.
func (m *Model) computeStructuralScore() int {
	w := m.Config.Weights
	balanceMorning := m.presentialFloor(m.Config.MorningHours)
	balanceAfternoon := m.presentialFloor(m.Config.AfternoonHours)
	high, med, low := m.onlinePreferenceCounts()

	return w.BalanceMorning*balanceMorning + w.BalanceAfternoon*balanceAfternoon +
		w.PrefOnlineHigh*high + w.PrefOnlineMed*med + w.PrefOnlineLow*low
}

func (m *Model) presentialFloor(hours []int) int {
	if len(hours) == 0 {
		return 0
	}
	counts := make(map[int]int, len(hours))
	for _, h := range hours {
		counts[h] = 0
	}
	for _, section := range m.Sections {
		if section.Modality != models.Presential {
			continue
		}
		if _, tracked := counts[section.StartHour]; tracked {
			counts[section.StartHour]++
		}
	}

	min := -1
	for _, h := range hours {
		c := counts[h]
		if min == -1 || c < min {
			min = c
		}
	}
	return min
}

func (m *Model) onlinePreferenceCounts() (high, med, low int) {
	for _, section := range m.Sections {
		if section.Modality != models.OnlineWeekday {
			continue
		}
		switch section.Shift {
		case models.Morning:
			switch {
			case m.Config.Tiers.MorningTier1[section.StartHour]:
				high++
			case m.Config.Tiers.MorningTier2[section.StartHour]:
				med++
			case m.Config.Tiers.MorningTier3[section.StartHour]:
				low++
			}
		case models.Evening:
			switch {
			case m.Config.Tiers.EveningTier1[section.StartHour]:
				high++
			case m.Config.Tiers.EveningTier2[section.StartHour]:
				med++
			}
		}
	}
	return high, med, low
}
