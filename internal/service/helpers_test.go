package service

import "database/sql"

var errNoRows = sql.ErrNoRows
