// Package chandragen converts Markdown and MDX documents to Gemtext by
// running each document through an ordered pipeline of named formatters.
//
// # Quick Start
//
// Resolve configured entries against the registry, then run them:
//
//	jobs, err := chandragen.Resolve(chandragen.DefaultRegistry(), defaults, entries)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sched := chandragen.NewScheduler(jobs, chandragen.WithWorkers(4))
//	for _, res := range sched.RunOnce(ctx) {
//	    if res.Err != nil {
//	        log.Println(res.Err)
//	    }
//	}
//
// # Pipelines
//
// A pipeline starts from the defaults formatter list, appends the entry's
// formatters, then removes every blacklisted name. Names are bound to
// functions at resolution time, so a resolved JobConfig never looks a
// formatter up by name again.
//
// After the formatter stages, the executor splices the job heading and
// footing around the body. With HeadingEndPattern set, everything before
// the first matching line plus HeadingStripOffset lines is dropped first.
//
// # Scheduling
//
// Scheduler.RunOnce runs every job once with a bounded worker pool.
// Scheduler.Run polls on a tick and starts each job whose Interval is due,
// never overlapping two runs of the same job. A job that fails is retried
// at its next due time.
//
// # Concurrency
//
// A Registry is read-only after construction and safe for concurrent use.
// JobConfig values are immutable once resolved.
package chandragen
