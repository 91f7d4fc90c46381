package search

// CheckEveryForTest exposes checkEvery.
const CheckEveryForTest = checkEvery
