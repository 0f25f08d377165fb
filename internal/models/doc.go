// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package models defines the data structures shared by the document store, the
content service and the HTTP API.

Document Models (MongoDB, bson tags):

  - Shabad: cached shabad in the "shabads" collection, one document per shabad_id
  - Ang: cached page in the "angs" collection, keyed by (ang, source)
  - Interaction: append-only event in the "interactions" collection
  - MetadataDoc: verbatim raags/writers/sources listing in the "metadata" collection

API Models (json tags):

  - APIResponse: standard response envelope
  - APIError: structured error body
  - QueryRequest: body of POST /query

Document models carry both bson and json tags because cached documents are
served to API clients as stored.
*/
package models
