// Package accounts provides account identity primitives for a single tenant
// web backend: registration with email verification, bearer session issuance
// and revocation, and request authentication.
//
// Verification:
//   - VerificationWorkflow registers accounts in a pending state. An account is
//     pending while it carries a verification token; Verify consumes the token
//     and marks the account verified. ResendVerification mails the same token
//     again.
//
// Sessions:
//   - SessionIssuer mints an HS256 JWT on login and stores it on the account
//     record. Each account holds exactly one session token, so logging in again
//     overwrites (and revokes) the previous token and Logout clears it.
//
// Request authentication:
//   - RequestAuthenticator resolves an "Authorization: Bearer <token>" header
//     to an Account. The token must verify and must equal the token stored on
//     the account. Use middleware/bearer to run it ahead of fiber handlers.
//
// Collaborators (AccountStore, PasswordHasher, Notifier, AvatarPipeline) are
// interfaces; the repository, mailer and avatar packages ship implementations.
package accounts
