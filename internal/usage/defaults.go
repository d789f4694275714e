package usage

import "time"

func defaultUsage() Usage {
	return Usage{
		Plan:     "Starter",
		Limit:    25,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
}
