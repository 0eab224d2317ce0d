/*
Package x contains the extensions a lockbox application is built from.

Extensions implement common functionality (Handler, Decorator,
Authenticator) and are combined together by the app package.
The sub-packages provide signature verification (sigs), a token
ledger (cash), single-use claimable balances (claimable) and
decorators shared by every application (utils).

This package itself only defines the Authenticator abstraction used
by extensions to check who authorized the current transaction.
*/
package x
