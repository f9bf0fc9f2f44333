package build

// Core network constants

// /////
// Marketplace

// BasisPoints is the denominator for percentage-style payout splits.
const BasisPoints = 10000

// RatingScale scales content rating averages to keep the incremental
// average in integer arithmetic.
const RatingScale = 1000

// SystemAccount is the only account permitted to appoint publishing
// managers.
const SystemAccount = 15

// /////
// Time

// Seconds
const Day = 24 * 60 * 60

// BuyingExpiration is how long a purchase order stays open before the
// expiry cleanup may run. Seconds.
const BuyingExpiration = Day

// SeederExpiration is renewed on every ready_to_publish. Seconds.
const SeederExpiration = Day

// CancellationGracePeriod bounds a cancelled content's remaining
// lifetime so in-flight deliveries can still complete. Seconds.
const CancellationGracePeriod = Day

// /////
// Proofs

// Blocks
const ProofReferenceMaxAge = 6

// ProofSeedPrefix is the number of block-id bytes a custody proof seed
// must reproduce.
const ProofSeedPrefix = 20
