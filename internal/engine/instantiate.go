package engine

import (
	"fmt"
	"sort"

	"schedule-engine/internal/models"
)

// Instantiate разворачивает demand descriptor каждого Subject-а в
// упорядоченный список Section-ов. Порядок детерминирован: предметы
// по возрастанию идентичности, затем PRESENTIAL перед ONLINE_WEEKDAY перед
// ONLINE_WEEKEND, а внутри модальности - часы по возрастанию.
func Instantiate(subjects []models.Subject) ([]models.Section, error) {
	ordered := make([]models.Subject, len(subjects))
	copy(ordered, subjects)
	models.SortSubjects(ordered)

	var sections []models.Section

	for _, subject := range ordered {
		idx := 0 // метка сбрасывается на 0 для каждого предмета
		for _, modality := range models.ModalityOrder() {
			hours := subject.Demand[modality]
			if hours == nil {
				continue
			}

			sortedHours := make([]int, 0, len(hours))
			for h := range hours {
				sortedHours = append(sortedHours, h)
			}
			sort.Ints(sortedHours)

			for _, hour := range sortedHours {
				count := hours[hour]
				if count < 0 {
					return nil, fmt.Errorf("%w: %s имеет отрицательное количество (%d) в %s@%d",
						ErrMalformedDescriptor, subject.Label(), count, modality, hour)
				}
				for i := 0; i < count; i++ {
					sections = append(sections, models.Section{
						Index:     len(sections),
						Label:     models.SectionLabel(idx),
						Subject:   subject,
						Shift:     models.DeriveShift(modality, hour),
						Modality:  modality,
						StartHour: hour,
					})
					idx++
				}
			}
		}
	}

	return sections, nil
}
