// Package auth implements Google sign-in for the web tools.
//
// Provider drives the OAuth2 authorization-code flow and looks up the
// signed-in user. Sessions are kept client side in a cookie sealed with
// NaCl secretbox, so the server holds no session state. The refresh token
// travels inside the sealed cookie and is only readable with the key.
package auth
