package engine

import (
	"schedule-engine/internal/models"

	"github.com/google/uuid"
)

// competenceIndex - teacherID -> subjectID -> true, строится один раз за
// прогон, чтобы не гонять O(sections*teachers*competences) в обеих проверках.
type competenceIndex map[uuid.UUID]map[uuid.UUID]bool

func buildCompetenceIndex(teachers []models.Teacher, competencesOf map[uuid.UUID][]models.Subject) competenceIndex {
	idx := competenceIndex{}
	for _, teacher := range teachers {
		set := map[uuid.UUID]bool{}
		for _, subject := range competencesOf[teacher.ID] {
			set[subject.ID] = true
		}
		idx[teacher.ID] = set
	}
	return idx
}

func (idx competenceIndex) isCompetent(teacherID, subjectID uuid.UUID) bool {
	set, ok := idx[teacherID]
	if !ok {
		return false
	}
	return set[subjectID]
}

// Validate отклоняет заведомо невыполнимый запрос до дорогого шага решателя.
// Запускает две проверки по порядку; первая неудача возвращает диагностику,
// именующую дефицитный предмет/слот.
func Validate(sections []models.Section, teachers []models.Teacher, competencesOf map[uuid.UUID][]models.Subject) error {
	idx := buildCompetenceIndex(teachers, competencesOf)

	if err := validateSlotCoverage(sections, teachers, idx); err != nil {
		return err
	}
	return validateSubjectCapacity(sections, teachers, idx)
}

// validateSlotCoverage: для каждого (day_pattern, start_hour),
// сгруппированного по идентичности предмета, required <= available.
func validateSlotCoverage(sections []models.Section, teachers []models.Teacher, idx competenceIndex) error {
	type slotSubjectKey struct {
		slot      models.Slot
		subjectID uuid.UUID
	}

	required := map[slotSubjectKey]int{}
	labels := map[slotSubjectKey]string{}

	for _, section := range sections {
		key := slotSubjectKey{slot: section.Slot(), subjectID: section.Subject.ID}
		required[key]++
		labels[key] = section.Subject.Label()
	}

	for key, need := range required {
		available := 0
		for _, teacher := range teachers {
			if idx.isCompetent(teacher.ID, key.subjectID) {
				available++
			}
		}
		if available < need {
			return &InsufficientCoverageError{
				SubjectLabel: labels[key],
				Slot:         models.SlotLabel(key.slot.Pattern, key.slot.StartHour),
				Required:     need,
				Available:    available,
			}
		}
	}
	return nil
}

// validateSubjectCapacity: требуемые часы предмета (8 на секцию) не должны
// превышать сумму max_hours_week компетентных преподавателей.
// Необходимое, но не достаточное условие: часы преподавателя делятся между
// всеми его предметами.
func validateSubjectCapacity(sections []models.Section, teachers []models.Teacher, idx competenceIndex) error {
	requiredHours := map[uuid.UUID]int{}
	labels := map[uuid.UUID]string{}

	for _, section := range sections {
		requiredHours[section.Subject.ID] += 8
		labels[section.Subject.ID] = section.Subject.Label()
	}

	for subjectID, need := range requiredHours {
		available := 0
		for _, teacher := range teachers {
			if idx.isCompetent(teacher.ID, subjectID) {
				available += teacher.MaxHoursWeek
			}
		}
		if available < need {
			return &InsufficientCapacityError{
				SubjectLabel: labels[subjectID],
				HoursNeed:    need,
				HoursHave:    available,
			}
		}
	}
	return nil
}
