package store

// Schema creates the three engine tables when missing. This is not a migration system:
// tables are created once and never altered.
const Schema = `
CREATE TABLE IF NOT EXISTS users
(
    id          SERIAL PRIMARY KEY,
    handle      VARCHAR          NOT NULL UNIQUE,
    credential  VARCHAR          NOT NULL,
    name        VARCHAR          NOT NULL DEFAULT '',
    age         INTEGER          NOT NULL DEFAULT 0,
    height      DOUBLE PRECISION NOT NULL DEFAULT 0,
    weight      DOUBLE PRECISION NOT NULL DEFAULT 0,
    goal_weight DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS workouts
(
    id               SERIAL PRIMARY KEY,
    user_id          INTEGER                     NOT NULL REFERENCES users (id),
    created_at       TIMESTAMP WITHOUT TIME ZONE NOT NULL,
    exercise_label   VARCHAR                     NOT NULL,
    duration_seconds INTEGER                     NOT NULL CHECK (duration_seconds >= 0),
    details          TEXT                        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS ix_workouts_user_id ON workouts (user_id);

CREATE TABLE IF NOT EXISTS meals
(
    id        SERIAL PRIMARY KEY,
    user_id   INTEGER          NOT NULL REFERENCES users (id),
    date      DATE             NOT NULL,
    food_name VARCHAR          NOT NULL,
    protein   DOUBLE PRECISION NOT NULL CHECK (protein >= 0),
    calories  DOUBLE PRECISION NOT NULL CHECK (calories >= 0)
);

CREATE INDEX IF NOT EXISTS ix_meals_user_id_date ON meals (user_id, date);
`
