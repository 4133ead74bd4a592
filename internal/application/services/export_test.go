package services

import "time"

func SetQueueClock(q *WalkInQueue, now func() time.Time) { q.now = now }

func SetDashboardClock(s *DashboardService, now func() time.Time) { s.now = now }
