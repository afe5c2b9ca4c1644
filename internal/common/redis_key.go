package common

const RedisKeyLeaderboard = "leaderboard:points"
