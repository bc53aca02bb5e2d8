package domain

import "context"

// StatsService computes dashboard counters.
type StatsService struct{ st TaskStore }

func NewStatsService(st TaskStore) StatsService { return StatsService{st: st} }

// Get counts tasks per status plus the open high priority tasks.
func (s StatsService) Get(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		filter TaskFilter
		dst    *int
	}{
		{TaskFilter{}, &stats.Total},
		{TaskFilter{Status: StatusTodo}, &stats.Todo},
		{TaskFilter{Status: StatusInProgress}, &stats.InProgress},
		{TaskFilter{Status: StatusDone}, &stats.Done},
		{TaskFilter{Priority: PriorityHigh, StatusNot: StatusDone}, &stats.HighPriority},
	}
	for _, c := range counts {
		n, err := s.st.CountTasks(ctx, c.filter)
		if err != nil {
			return Stats{}, err
		}
		*c.dst = n
	}
	return stats, nil
}
