package engine

import "time"

// ObjectiveWeights - веса взвешенной суммы целевой функции. Относительные
// величины задают приоритет: балансировка нагрузки > широта охвата
// преподавателей > предпочтения по времени > смежность > штраф online-only.
type ObjectiveWeights struct {
	BalanceMorning     int
	BalanceAfternoon   int
	Assigned           int
	PrefOnlineHigh     int
	PrefOnlineMed      int
	PrefOnlineLow      int
	Consec             int
	VirtualOnlyPenalty int
}

// HourTiers - предпочтительные часы ONLINE_WEEKDAY по сменам.
type HourTiers struct {
	MorningTier1 map[int]bool
	MorningTier2 map[int]bool
	MorningTier3 map[int]bool
	EveningTier1 map[int]bool
	EveningTier2 map[int]bool
}

// SchedulerConfig агрегирует все литералы модели и решателя в один явный
// конфигурационный объект.
type SchedulerConfig struct {
	SolverTimeBudget time.Duration
	Weights          ObjectiveWeights
	Tiers            HourTiers
	// WeekdayHours - канонический универсум часов Пн-Чт слотов, в порядке
	// возрастания; используется для определения "соседних" слотов (consec)
	// и для построения разрывов модальности.
	WeekdayHours []int
	// MorningHours/AfternoonHours - часы, по которым считается
	// load-balancing floor (balance_morning/balance_afternoon).
	MorningHours   []int
	AfternoonHours []int
}

func intSet(values ...int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// DefaultSchedulerConfig - значения по умолчанию для весов, часовых ярусов и
// списков часов.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		SolverTimeBudget: 60 * time.Second,
		Weights: ObjectiveWeights{
			BalanceMorning:     5000,
			BalanceAfternoon:   5000,
			Assigned:           1000,
			PrefOnlineHigh:     100,
			PrefOnlineMed:      50,
			PrefOnlineLow:      45,
			Consec:             10,
			VirtualOnlyPenalty: 100,
		},
		Tiers: HourTiers{
			MorningTier1: intSet(7, 9),
			MorningTier2: intSet(11, 13),
			MorningTier3: intSet(19),
			EveningTier1: intSet(19),
			EveningTier2: intSet(17),
		},
		WeekdayHours:   []int{7, 9, 11, 13, 15, 17, 19},
		MorningHours:   []int{7, 9, 11},
		AfternoonHours: []int{13, 15, 17},
	}
}
