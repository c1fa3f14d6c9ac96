// Copyright 2026 rdb-forms. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package rdb-app-sheets appends web form submissions to a Google Sheets worksheet.

rdb-app-sheets serves a small submission form and a JSON API. Each submission carries six
required fields (Branch, Name, CRM, Email, MBTI and Description) which are appended as a
single row to the configured worksheet, authenticating with a Google service account key
stored in the application root directory.

rdb-app-sheets supports the following commands:

  - run, to serve the submission form and the POST /api/submit endpoint
  - submit, to append a single submission from the command line
  - check, to verify the service account key and that the worksheet can be opened
  - version, to display the current version
*/
package sheets
