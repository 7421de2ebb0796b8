package shared

// Background task types processed by the worker
const (
	TypeTipReceived        = "artist:tip_received"
	TypeProfileClosed      = "artist:profile_closed"
	TypeRebuildLeaderboard = "artist:rebuild_leaderboard"
)

// Worker queues
const (
	QueueArtist      = "artist"
	QueueMaintenance = "maintenance"
)
