package repo

const eventColumns = `id, title, description, event_date, start_time, end_time, created_by, created_at, updated_at`

const selectColumns = `e.id, e.title, e.description, e.event_date, e.start_time, e.end_time,
	e.created_by, e.created_at, e.updated_at, COALESCE(u.name, '')`

// creatorJoin добавляет имя автора из users; события без профиля получают пустое имя
const creatorJoin = ` LEFT JOIN users u ON u.id = e.created_by`

const createEvent = `WITH e AS (
	INSERT INTO events (id, title, description, event_date, start_time, end_time, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
	RETURNING ` + eventColumns + `
)
SELECT ` + selectColumns + ` FROM e` + creatorJoin

const getEventByID = `SELECT ` + selectColumns + ` FROM events e` + creatorJoin + `
WHERE e.id = $1`

const getOwnedEvent = `SELECT ` + selectColumns + ` FROM events e` + creatorJoin + `
WHERE e.id = $1 AND e.created_by = $2`

const getEventsBase = `SELECT ` + selectColumns + ` FROM events e` + creatorJoin

const getEventsOrder = ` ORDER BY e.event_date, e.start_time, e.id`

const updateOwnedEvent = `WITH e AS (
	UPDATE events
	SET title = $3, description = $4, event_date = $5, start_time = $6, end_time = $7, updated_at = now()
	WHERE id = $1 AND created_by = $2
	RETURNING ` + eventColumns + `
)
SELECT ` + selectColumns + ` FROM e` + creatorJoin

const deleteOwnedEvent = `WITH e AS (
	DELETE FROM events
	WHERE id = $1 AND created_by = $2
	RETURNING ` + eventColumns + `
)
SELECT ` + selectColumns + ` FROM e` + creatorJoin

const deleteOldEvents = `DELETE FROM events
		WHERE event_date < now() - make_interval(days => $1)`

// lockDay сериализует запись событий одного календарного дня до конца транзакции
const lockDay = `SELECT pg_advisory_xact_lock(hashtext($1))`

// USERS
const upsertUser = `INSERT INTO users (id, name, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`

// OUTBOX
const insertOutboxQuery = `
INSERT INTO outbox_event (
  aggregate_id, aggregate_type, event_type, payload, status, attempts, next_attempt_at, created_at
) VALUES ($1,$2,$3, ($4)::jsonb, $5, 0, now(), now())
RETURNING id
`

const reserveBatchSQL = `
WITH picked AS (
	SELECT id
  	FROM outbox_event
  	WHERE status IN ('NEW','FAILED')
		AND next_attempt_at <= now()
    	AND attempts < $3
  	ORDER BY id
  	FOR UPDATE SKIP LOCKED
	LIMIT $2
)
UPDATE outbox_event AS o
SET next_attempt_at = now() + $1::interval
FROM picked
WHERE o.id = picked.id
RETURNING o.id, o.aggregate_id, o.aggregate_type, o.event_type, o.payload, o.status, o.attempts, o.next_attempt_at, o.created_at;
`

const markFailedSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at=$3
WHERE id=$1`

const markGaveUpSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at = now()
WHERE id=$1
`

const markSentSQL = `UPDATE outbox_event SET status=$2 WHERE id=$1`
