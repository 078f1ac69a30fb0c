package constants

// TrackerPalette is the fixed set of colors a tracker cell can be marked with.
var TrackerPalette = []string{
	"bg-red-200", "bg-orange-200", "bg-amber-200",
	"bg-yellow-200", "bg-lime-200", "bg-green-200",
	"bg-emerald-200", "bg-teal-200", "bg-cyan-200",
	"bg-sky-200", "bg-blue-200", "bg-indigo-200",
	"bg-violet-200", "bg-purple-200", "bg-fuchsia-200",
	"bg-pink-200", "bg-rose-200",
}

// SampleBrainDump is used in place of an empty brain dump when generating.
const SampleBrainDump = `07:00 Morning run and stretching
09:00 Deep work: project architecture
12:00 Lunch
14:00 Team sync
16:00 Code review and email
18:30 Gym
21:00 Read and wind down`
