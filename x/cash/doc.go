/*
Package cash defines a simple implementation of sending coins
between accounts.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

Any extension that holds funds on behalf of users, like an escrow,
uses the CoinMover to transfer value in and out of its own address.
*/
package cash
